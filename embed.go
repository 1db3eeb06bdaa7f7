package main

import (
	_ "embed"
)

//go:embed web/index.html
var statusPage []byte
