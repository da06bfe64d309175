//go:build !linux

package response

import (
	"errors"
	"os"
)

var errSendfileUnsupported = errors.New("response: sendfile not supported on this platform")

// sendFile reports unsupported so the caller falls back to the chunked
// copy. kqueue platforms use a different sendfile signature that is not
// worth a third code path here.
func sendFile(dst int, f *os.File, offset, length int64) (int64, error) {
	return 0, errSendfileUnsupported
}
