package rotation

import "errors"

var ErrNoChannelsAvailable = errors.New("no payment channels available")
