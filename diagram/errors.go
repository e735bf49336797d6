package diagram

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidEndpoint    = errors.New("relationship endpoint must be an existing entity")
	ErrSelfLoop           = errors.New("relationship source and target are the same node")
	ErrInvalidCardinality = errors.New("invalid cardinality")
	ErrInvalidSize        = errors.New("node width and height must be positive")
	ErrInvalidPosition    = errors.New("node position must be finite")
	ErrInvalidKind        = errors.New("unknown relationship kind")
)
