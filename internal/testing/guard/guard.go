// Package guard puts the console into test mode when imported by a test
// binary, so no token file or redis connection is ever touched.
package guard

import "github.com/marketops/console/internal/app"

func init() {
	app.SetTestMode(true)
}
