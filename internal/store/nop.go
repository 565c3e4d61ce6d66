package store

import "github.com/amishk599/jobdigest/internal/model"

// NopArchive discards every digest. It is used when ARCHIVE_PATH is unset.
type NopArchive struct{}

func NewNopArchive() *NopArchive { return &NopArchive{} }

func (NopArchive) Record(model.Digest, string) error          { return nil }
func (NopArchive) Recent(int) ([]model.ArchivedDigest, error) { return nil, nil }
