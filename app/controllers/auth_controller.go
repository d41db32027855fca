package controllers

import (
	"github.com/shashiranjanraj/kasir/app/services"
	"github.com/shashiranjanraj/kasir/pkg/ctx"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

type loginRequest struct {
	Identity string `json:"user_identity" validate:"required,max=255"`
	Password string `json:"password"      validate:"required,max=72"`
}

// Login answers {ok, data:{token, expiresAt, profile}}.
func (ac *AuthController) Login(c *ctx.Context) {
	var in loginRequest
	if !c.BindJSON(&in) {
		return
	}

	session, err := ac.auth.Authenticate(c.Context(), in.Identity, in.Password)
	if err != nil {
		fail(c, "Login failed", err)
		return
	}
	c.Data(session)
}

func (ac *AuthController) Register(c *ctx.Context) {
	var in services.RegisterInput
	if !c.BindJSON(&in) {
		return
	}

	profile, err := ac.auth.Register(c.Context(), in)
	if err != nil {
		fail(c, "Registration failed", err)
		return
	}
	c.Created("Account created", profile)
}

func (ac *AuthController) Profiles(c *ctx.Context) {
	profiles, err := ac.auth.ListAccounts(c.Context())
	if err != nil {
		fail(c, "Could not load profiles", err)
		return
	}
	c.OK("Profiles", profiles)
}

func (ac *AuthController) Profile(c *ctx.Context) {
	profile, err := ac.auth.FindByUsername(c.Context(), c.Param("username"))
	if err != nil {
		fail(c, "Could not load profile", err)
		return
	}
	c.OK("Profile", profile)
}

// UpdatePhoto replaces the caller's photo with the multipart "file" part.
func (ac *AuthController) UpdatePhoto(c *ctx.Context) {
	upload, ok := c.Image("file", true)
	if !ok {
		return
	}

	profile, err := ac.auth.UpdatePhoto(c.Context(), c.AccountID(), *upload)
	if err != nil {
		fail(c, "Update photo failed", err)
		return
	}
	c.OK("Profile photo updated", profile)
}
