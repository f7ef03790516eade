package domain

import "time"

// Trade represents one closed position in the reconciled ledger.
type Trade struct {
	Strategy   string    // Trading system that produced the trade (required)
	Ticker     string    // Instrument symbol (optional)
	Position   string    // Long/short marker from the source export (optional)
	EntryDate  time.Time // Date the position was opened (zero value if unknown)
	ExitDate   time.Time // Date the position was closed (required, date precision)
	Quantity   float64   // Number of contracts/shares (optional)
	EntryPrice float64   // Fill price at entry (optional)
	ExitPrice  float64   // Fill price at exit (optional)
	Commission float64   // Round-trip commission (optional)
	NetPL      float64   // Realized profit or loss, signed (required)
	Source     string    // Which ingestion path produced this record
}
