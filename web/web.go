// Package web holds the embedded admin console assets.
package web

import _ "embed"

//go:embed admin.html
var AdminHTML []byte
