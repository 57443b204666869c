package service

// AdminGate answers whether a subject holds moderation rights. The set is
// loaded from configuration at startup and never changes afterwards.
type AdminGate struct {
	admins map[string]struct{}
}

func NewAdminGate(subjects []string) *AdminGate {
	g := &AdminGate{admins: make(map[string]struct{}, len(subjects))}
	for _, s := range subjects {
		if s != "" {
			g.admins[s] = struct{}{}
		}
	}
	return g
}

func (g *AdminGate) IsAdmin(subject string) bool {
	if g == nil || subject == "" {
		return false
	}
	_, ok := g.admins[subject]
	return ok
}
