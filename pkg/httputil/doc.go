// Package httputil provides retry helpers for the hanzitree HTTP client.
//
// Wrap transient failures (connection errors, 5xx responses) in
// [RetryableError] and run the request through [Retry]:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    resp, err := http.DefaultClient.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    ...
//	})
//
// Any other error stops the loop immediately.
package httputil
