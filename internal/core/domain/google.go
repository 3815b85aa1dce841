package domain

// GoogleIdentity is the verified subset of a Google ID token we rely on.
type GoogleIdentity struct {
	Subject       string
	Email         string
	EmailVerified bool
	GivenName     string
	FamilyName    string
	Name          string
}
