package user

import "errors"

var ErrAlreadyCheckedIn = errors.New("already checked in today")
