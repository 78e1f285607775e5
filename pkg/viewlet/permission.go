package viewlet

// Permission is the access requirement for rendering a provider. The zero
// value is public.
type Permission struct {
	RequireAuth bool
	Roles       []string
	Users       []string
}

// Public reports whether anyone may render.
func (p Permission) Public() bool {
	return !p.RequireAuth && len(p.Roles) == 0 && len(p.Users) == 0
}

// Protected providers declare a Permission.
type Protected interface {
	Permission() Permission
}

// PermissionOf returns p's permission; providers that declare none are public.
func PermissionOf(p any) Permission {
	if x, ok := p.(Protected); ok {
		return x.Permission()
	}
	return Permission{}
}
