package taxonomy

import "errors"

// ErrInvalidTaxonomy indicates a broken taxonomy table. It is a configuration
// error: callers must abort startup rather than continue with partial rules.
var ErrInvalidTaxonomy = errors.New("invalid taxonomy")
