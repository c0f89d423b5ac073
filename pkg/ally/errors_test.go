package ally

import (
	"context"
	"errors"
	"net"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeTimeoutError struct{}

func (fakeTimeoutError) Error() string   { return "i/o timeout" }
func (fakeTimeoutError) Timeout() bool   { return true }
func (fakeTimeoutError) Temporary() bool { return true }

func TestClassifyTimeout(t *testing.T) {

	assert := assert.New(t)

	assert.Equal(ErrorKindTimeout, Classify(context.DeadlineExceeded))
	assert.Equal(ErrorKindTimeout, Classify(fakeTimeoutError{}))
}

func TestClassifyHTTP(t *testing.T) {

	assert := assert.New(t)

	assert.Equal(ErrorKindHTTP, Classify(&HTTPError{StatusCode: 500, Status: "Internal Server Error"}))
	assert.Equal(ErrorKindHTTP, Classify(&HTTPError{StatusCode: 429, Status: "Too Many Requests"}))
}

func TestClassifyAuthorization(t *testing.T) {

	assert := assert.New(t)

	assert.Equal(ErrorKindAuthorization, Classify(ErrNotAuthorized))
	assert.Equal(ErrorKindAuthorization, Classify(&HTTPError{StatusCode: 401, Status: "Unauthorized"}))
	assert.Equal(ErrorKindAuthorization, Classify(&HTTPError{StatusCode: 403, Status: "Forbidden"}))
}

func TestClassifyConnection(t *testing.T) {

	assert := assert.New(t)

	assert.Equal(ErrorKindConnection, Classify(&net.OpError{Op: "dial", Err: errors.New("refused")}))
	assert.Equal(ErrorKindConnection, Classify(syscall.ECONNREFUSED))
}

func TestClassifyUnknown(t *testing.T) {

	assert := assert.New(t)

	assert.Equal(ErrorKindUnknown, Classify(errors.New("lorem ipsum")))
}
