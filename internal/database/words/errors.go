package words

import "errors"

var (
	ErrStoreClosed  = errors.New("word store closed")
	ErrInvalidQuery = errors.New("invalid word query")
)
