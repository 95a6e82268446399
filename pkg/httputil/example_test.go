package httputil_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bouqlink/bouqlink/pkg/httputil"
)

func ExampleRetry() {
	attempts := 0
	err := httputil.Retry(context.Background(), 3, time.Millisecond, func() error {
		attempts++
		if attempts < 3 {
			return httputil.Retryable(errors.New("connection reset"))
		}
		return nil
	})
	fmt.Println(attempts, err)
	// Output: 3 <nil>
}
