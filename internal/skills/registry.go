package skills

// scoreFloor is the fixed confidence threshold separating a real match
// from noise. Matches scoring at or below it are discarded.
const scoreFloor = 0.5

// RegistryMatch pairs a winning skill with its match result
type RegistryMatch struct {
	Skill   Skill
	Score   float64
	Data    interface{}
	Preview string
}

// Registry holds the ordered collection of registered skills.
// Registration order only matters for exact score ties: the skill
// registered first wins.
type Registry struct {
	skills []Skill
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a skill to the registry
func (r *Registry) Register(skill Skill) {
	r.skills = append(r.skills, skill)
}

// Skills returns the registered skills in registration order
func (r *Registry) Skills() []Skill {
	return r.skills
}

// Match returns the best-scoring skill match for the query, or nil when
// the query is empty or no skill scores above the confidence floor.
func (r *Registry) Match(query string) *RegistryMatch {
	if query == "" {
		return nil
	}

	var best *RegistryMatch
	highest := 0.0

	for _, skill := range r.skills {
		result := skill.Match(query)
		if result == nil {
			continue
		}
		// Strictly greater, so earlier registrations win ties
		if result.Score > highest {
			highest = result.Score
			best = &RegistryMatch{
				Skill:   skill,
				Score:   result.Score,
				Data:    result.Data,
				Preview: result.Preview,
			}
		}
	}

	if best == nil || best.Score <= scoreFloor {
		return nil
	}
	return best
}
