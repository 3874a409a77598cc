package domain

import "errors"

// Login-time failures. ErrAccountInactive is deliberately more specific than
// ErrUnauthenticated: the caller just proved the credential, so confirming the
// account is disabled leaks nothing an attacker could not already verify.
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrAccountInactive = errors.New("account inactive")

// Mid-session failures. All sub-causes (missing header, bad or expired token,
// unknown or disabled principal) collapse to ErrUnauthenticated outward.
var ErrUnauthenticated = errors.New("authentication required")
var ErrForbidden = errors.New("access forbidden")

var ErrDuplicateUsername = errors.New("username already exists")
var ErrPrincipalNotFound = errors.New("principal not found")
var ErrCompanyNotFound = errors.New("company not found")
var ErrAccountNotFound = errors.New("account not found")
var ErrModelNotFound = errors.New("model not found")
var ErrInsufficientData = errors.New("insufficient data for training")
var ErrValidation = errors.New("validation failed")

// ErrUnavailable marks backing-store failures. It is never mapped to an
// authentication or authorization failure: "store unreachable" must stay
// distinguishable from "access denied".
var ErrUnavailable = errors.New("backing store unavailable")
