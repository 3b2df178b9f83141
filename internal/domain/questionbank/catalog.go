package questionbank

// Subject maps a display name to its bank file.
type Subject struct {
	Name string `mapstructure:"name" json:"name"`
	File string `mapstructure:"file" json:"file"`
}

// Catalog is the ordered list of subjects offered to the learner.
type Catalog struct {
	subjects []Subject
	byName   map[string]Subject
}

func NewCatalog(subjects []Subject) *Catalog {
	c := &Catalog{
		subjects: make([]Subject, 0, len(subjects)),
		byName:   make(map[string]Subject, len(subjects)),
	}
	for _, s := range subjects {
		if s.Name == "" || s.File == "" {
			continue
		}
		if _, dup := c.byName[s.Name]; dup {
			continue
		}
		c.subjects = append(c.subjects, s)
		c.byName[s.Name] = s
	}
	return c
}

// DefaultCatalog is used when no catalog file is configured.
func DefaultCatalog() *Catalog {
	return NewCatalog([]Subject{
		{Name: "Algoritm", File: "Algoritm.json"},
		{Name: "Dinshunoslik", File: "Dinshunoslik.json"},
		{Name: "Ma'lumotlar Bazasi", File: "Ma'lumotlarBazasi.json"},
		{Name: "Dasturlash", File: "Dasturlash.json"},
		{Name: "Chiziqli Algebra", File: "ChiziqliAlgebra.json"},
		{Name: "Hisob", File: "Hisob.json"},
	})
}

func (c *Catalog) Subjects() []Subject {
	out := make([]Subject, len(c.subjects))
	copy(out, c.subjects)
	return out
}

func (c *Catalog) Lookup(name string) (Subject, bool) {
	s, ok := c.byName[name]
	return s, ok
}
