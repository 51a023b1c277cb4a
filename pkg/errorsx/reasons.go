package errorsx

// ReasonCode is a short machine-readable error reason.
type ReasonCode string

const (
	ReasonUnknown ReasonCode = "unknown"

	ReasonValidation       ReasonCode = "validation"
	ReasonCatalogIntegrity ReasonCode = "catalog_integrity"
	ReasonAuth             ReasonCode = "auth"
	ReasonNotFound         ReasonCode = "not_found"

	ReasonRecordStore  ReasonCode = "record_store"
	ReasonRecordVerify ReasonCode = "record_verify"

	ReasonDocumentStore ReasonCode = "document_store"

	ReasonDispatch            ReasonCode = "dispatch"
	ReasonDispatchUnavailable ReasonCode = "dispatch_unavailable"
)

// External reports whether the reason belongs to a failed external collaborator.
func (r ReasonCode) External() bool {
	switch r {
	case ReasonRecordStore, ReasonRecordVerify, ReasonDocumentStore, ReasonDispatch, ReasonDispatchUnavailable:
		return true
	default:
		return false
	}
}
