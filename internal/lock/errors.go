package lock

import "errors"

var ErrLockBusy = errors.New("slot lock busy")
