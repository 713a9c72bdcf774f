package memory

import domainRepo "github.com/sangkips/pos-billing-api/internal/domain/repository"

// ErrDuplicate mirrors a unique-constraint violation.
var ErrDuplicate = domainRepo.ErrDuplicate
