package devices

import "errors"

// ErrNotSupported is returned when an operation is not supported on the
// current platform, used by the Linux I2C target-mode stubs since Linux's
// i2c-dev ioctl interface has no slave/target mode to back them with.
var ErrNotSupported = errors.New("operation not supported")
