package errx

import "net/http"

// WrapState marks a failure of the user state store. State read failures are
// never downgraded to a default record, since that could re-trigger the
// first-contact welcome for an already-welcomed user.
func WrapState(err error) *Error {
	if err == nil {
		return nil
	}
	return New(err, http.StatusBadGateway, StateErrorMessage)
}

// WrapContent marks a static content document as missing, unreadable or
// malformed. Content is validated at boot, so hitting this at turn time means
// the deployment is broken.
func WrapContent(err error) *Error {
	if err == nil {
		return nil
	}
	return New(err, http.StatusInternalServerError, ContentErrorMessage)
}
