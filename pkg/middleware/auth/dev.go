package auth

import "net/http"

// Headers read by the dev bypass (AUTH_DEV_BYPASS=true). Never enable in prod.
const (
	DevUserHeader     = "X-Dev-User"
	DevRoleHeader     = "X-Dev-Role"
	DevProviderHeader = "X-Dev-Provider"
)

func devUserFromHeaders(r *http.Request) User {
	name := r.Header.Get(DevUserHeader)
	if name == "" {
		return User{}
	}
	prov := r.Header.Get(DevProviderHeader)
	if prov == "" {
		prov = "dev"
	}
	return User{
		Username:             name,
		AuthenticationSource: AuthenticationSource{Provider: prov},
		Role:                 Role{Name: r.Header.Get(DevRoleHeader)},
	}
}
