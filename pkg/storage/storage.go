package storage

// Version is an opaque token identifying one revision of a stored document.
// A write must present the Version obtained from the most recent read of the
// same document; the zero Version means the document did not exist and the
// write should create it.
type Version string

// Exists reports whether the version refers to an existing document revision.
func (v Version) Exists() bool { return v != "" }

// LedgerStore composes every document operation the service needs.
// Components should depend on the more granular interfaces (VPNStore,
// LicenseStore, etc.) instead of this one.
type LedgerStore interface {
	VPNStore
	LicenseStore
	AssetStore
	DocumentStore
}
