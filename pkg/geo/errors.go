package geo

import "errors"

// GEO parse errors. All of them abort the parse of the current document.
var (
	ErrMalformedDocument         = errors.New("malformed GEO document")
	ErrUnsupportedTopologyEntry  = errors.New("unsupported GEO topology entry")
	ErrUnsupportedPrimitiveType  = errors.New("unsupported GEO primitive type")
	ErrUnsupportedRunShape       = errors.New("unsupported GEO primitive run shape")
	ErrUnsupportedAttributeScope = errors.New("unsupported GEO attribute scope")
)
