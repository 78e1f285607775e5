package auth

import "context"

func (m *Middleware) GetUser(ctx context.Context) User {
	u, _ := UserFrom(ctx)
	return u
}

func (m *Middleware) IsRole(ctx context.Context, role Role) bool {
	if u, ok := UserFrom(ctx); ok {
		return u.Role.Name == role.Name || m.isAdminRole(u.Role.Name)
	}
	return false
}

func (m *Middleware) IsAdmin(ctx context.Context) bool {
	if u, ok := UserFrom(ctx); ok {
		return m.isAdminRole(u.Role.Name)
	}
	return false
}

func (m *Middleware) IsUser(ctx context.Context, username string) bool {
	if u, ok := UserFrom(ctx); ok {
		return u.Username == username || m.isAdminRole(u.Role.Name)
	}
	return false
}

func (m *Middleware) IsAuthenticated(ctx context.Context) bool {
	_, ok := UserFrom(ctx)
	return ok
}

func (m *Middleware) isAdminRole(name string) bool {
	return m != nil && m.adminRole != "" && name == m.adminRole
}
