package service

import "github.com/stemsi/school-records/internal/repository"

// TxStore is the storage capability the entity services need: plain access
// for single-statement operations and a transaction for multi-step ones.
type TxStore interface {
	repository.Store
	repository.Transactor
}
