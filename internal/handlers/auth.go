package handlers

import (
	"net/http"
)

// login checks credentials with the store's session login
func (r *Router) login(w http.ResponseWriter, req *http.Request) {
	p, ok := r.params(w, req)
	if !ok {
		return
	}

	usr := p.get("usr")
	if usr == "" {
		usr = p.get("email")
	}
	pwd := p.raw("pwd")
	if pwd == "" {
		pwd = p.raw("password")
	}

	res, err := r.portal.Login(req.Context(), usr, pwd)
	if err != nil {
		r.respondFailure(w, req, "login", err)
		return
	}
	respondMessage(w, res)
}
