package ledger

// QuorumCertificate is the aggregated form of votes from a supermajority of
// validators for a specific block. It carries the certified ledger info so
// that a lagging replica can use any certificate it receives as a catch-up
// target.
type QuorumCertificate struct {
	CertifiedBlockID Identifier
	SignedLedgerInfo LedgerInfoWithSignatures
}

// LedgerInfo returns the certified ledger info carried by the certificate.
func (qc *QuorumCertificate) LedgerInfo() *LedgerInfoWithSignatures {
	return &qc.SignedLedgerInfo
}
