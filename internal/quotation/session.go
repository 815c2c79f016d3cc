package quotation

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/trophydesk/trophydesk/internal/catalog"
)

// Entry fields accepted by UpdateEntryField.
const (
	FieldUnitCost              = "unit_cost"
	FieldMoldCost              = "mold_cost"
	FieldMoldCostAdditionalTHB = "mold_cost_additional_thb"
	FieldFactoryValue          = "factory_value"
)

// Session is one open estimation round for a quotation: the shared
// header plus the factory entries under comparison. Sessions live in
// memory only; the winning entry is promoted onto the quotation record
// at approval time.
type Session struct {
	QuotationID int64          `json:"quotation_id"`
	Header      GlobalHeader   `json:"header"`
	Entries     []FactoryEntry `json:"entries"`
}

// NewSession opens an estimation session for a quotation, seeding the
// shared header from the record's quantity and budget.
func NewSession(q *Quotation) *Session {
	return &Session{
		QuotationID: q.ID,
		Header: GlobalHeader{
			Quantity:            q.Quantity,
			UnitSellingPriceTHB: q.CustomerBudget,
		},
	}
}

// AddEntry creates a factory entry seeded from the session header. At
// most one entry per factory is allowed.
func (s *Session) AddEntry(cat *catalog.Catalog, factoryCode string) (FactoryEntry, error) {
	factory, ok := cat.Lookup(factoryCode)
	if !ok {
		return FactoryEntry{}, fmt.Errorf("%w: unknown factory %q", ErrNotFound, factoryCode)
	}
	for _, entry := range s.Entries {
		if entry.FactoryValue == factory.Code {
			return FactoryEntry{}, fmt.Errorf("%w: factory %q already in comparison", ErrValidation, factory.Code)
		}
	}
	entry := FactoryEntry{
		ID:           uuid.NewString(),
		FactoryValue: factory.Code,
		FactoryLabel: factory.Label,
	}
	totals := ComputeEntryTotals(entry, s.Header)
	entry.applyTotals(totals)
	s.Entries = append(s.Entries, entry)
	return entry, nil
}

// RemoveEntry deletes an entry. Removing the winner clears the winner
// designation without promoting another entry.
func (s *Session) RemoveEntry(entryID string) error {
	for i, entry := range s.Entries {
		if entry.ID == entryID {
			s.Entries = append(s.Entries[:i], s.Entries[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: entry %s not in session", ErrNotFound, entryID)
}

// UpdateEntryField mutates one factory-specific field and recomputes
// that entry only. Cost fields take a float64 value; factory_value
// takes the new factory code and is re-validated against the catalog.
func (s *Session) UpdateEntryField(cat *catalog.Catalog, entryID, field string, value any) error {
	idx := s.indexOf(entryID)
	if idx < 0 {
		return fmt.Errorf("%w: entry %s not in session", ErrNotFound, entryID)
	}
	entry := &s.Entries[idx]

	switch field {
	case FieldUnitCost, FieldMoldCost, FieldMoldCostAdditionalTHB:
		amount, ok := toFloat(value)
		if !ok {
			return fmt.Errorf("%w: field %s expects a number", ErrValidation, field)
		}
		switch field {
		case FieldUnitCost:
			entry.UnitCost = amount
		case FieldMoldCost:
			entry.MoldCost = amount
		case FieldMoldCostAdditionalTHB:
			entry.MoldCostAdditionalTHB = amount
		}
	case FieldFactoryValue:
		code, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: field %s expects a factory code", ErrValidation, field)
		}
		factory, ok := cat.Lookup(code)
		if !ok {
			return fmt.Errorf("%w: unknown factory %q", ErrNotFound, code)
		}
		for _, other := range s.Entries {
			if other.ID != entryID && other.FactoryValue == factory.Code {
				return fmt.Errorf("%w: factory %q already in comparison", ErrValidation, factory.Code)
			}
		}
		entry.FactoryValue = factory.Code
		entry.FactoryLabel = factory.Label
	default:
		return fmt.Errorf("%w: unknown entry field %q", ErrValidation, field)
	}

	entry.applyTotals(ComputeEntryTotals(*entry, s.Header))
	return nil
}

// Header fields accepted by UpdateHeaderField.
const (
	FieldShippingCostRMB        = "shipping_cost_rmb"
	FieldExchangeRate           = "exchange_rate"
	FieldVATPercent             = "vat_percent"
	FieldQuantity               = "quantity"
	FieldUnitSellingPriceTHB    = "unit_selling_price_thb"
	FieldLanyardSellingPriceTHB = "lanyard_selling_price_thb"
)

// UpdateHeaderField mutates one shared input and recomputes every entry
// in the session as one batch, so no entry is left with stale totals.
func (s *Session) UpdateHeaderField(field string, value float64) error {
	switch field {
	case FieldShippingCostRMB:
		s.Header.ShippingCostRMB = value
	case FieldExchangeRate:
		s.Header.ExchangeRate = value
	case FieldVATPercent:
		s.Header.VATPercent = value
	case FieldQuantity:
		s.Header.Quantity = int(value)
	case FieldUnitSellingPriceTHB:
		s.Header.UnitSellingPriceTHB = value
	case FieldLanyardSellingPriceTHB:
		s.Header.LanyardSellingPriceTHB = value
	default:
		return fmt.Errorf("%w: unknown header field %q", ErrValidation, field)
	}
	s.RecomputeAll()
	return nil
}

// RecomputeAll re-evaluates every entry's derived totals against the
// current header.
func (s *Session) RecomputeAll() {
	for i := range s.Entries {
		s.Entries[i].applyTotals(ComputeEntryTotals(s.Entries[i], s.Header))
	}
}

// SelectWinner marks the given entry as winner and clears the flag on
// every other entry. Winner selection is single-select.
func (s *Session) SelectWinner(entryID string) error {
	if s.indexOf(entryID) < 0 {
		return fmt.Errorf("%w: entry %s not in session", ErrNotFound, entryID)
	}
	for i := range s.Entries {
		s.Entries[i].IsWinner = s.Entries[i].ID == entryID
	}
	return nil
}

// Winner returns the single winning entry, if one is selected.
func (s *Session) Winner() (FactoryEntry, bool) {
	for _, entry := range s.Entries {
		if entry.IsWinner {
			return entry, true
		}
	}
	return FactoryEntry{}, false
}

// AttachEvidence stores an opaque evidence reference on an entry.
func (s *Session) AttachEvidence(entryID, fileRef string) error {
	idx := s.indexOf(entryID)
	if idx < 0 {
		return fmt.Errorf("%w: entry %s not in session", ErrNotFound, entryID)
	}
	s.Entries[idx].UploadedFile = &fileRef
	return nil
}

func (s *Session) indexOf(entryID string) int {
	for i, entry := range s.Entries {
		if entry.ID == entryID {
			return i
		}
	}
	return -1
}

func (e *FactoryEntry) applyTotals(t EntryTotals) {
	e.TotalCostPerUnit = t.TotalCostPerUnit
	e.TotalSellingPricePerUnit = t.TotalSellingPricePerUnit
	e.TotalProfit = t.TotalProfit
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// SessionStore keeps open estimation sessions keyed by quotation id.
// Session mutations are serialised per store so a header change always
// lands as one atomic recompute batch.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

// NewSessionStore builds an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[int64]*Session)}
}

// Open returns the session for a quotation, creating it when absent.
func (st *SessionStore) Open(q *Quotation) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	if sess, ok := st.sessions[q.ID]; ok {
		return sess
	}
	sess := NewSession(q)
	st.sessions[q.ID] = sess
	return sess
}

// Get returns the open session for a quotation.
func (st *SessionStore) Get(quotationID int64) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	sess, ok := st.sessions[quotationID]
	return sess, ok
}

// Discard drops the session for a quotation.
func (st *SessionStore) Discard(quotationID int64) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, quotationID)
}

// Mutate runs fn against the session for quotationID under the store
// lock.
func (st *SessionStore) Mutate(quotationID int64, fn func(*Session) error) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	sess, ok := st.sessions[quotationID]
	if !ok {
		return fmt.Errorf("%w: no open estimation session for quotation %d", ErrNotFound, quotationID)
	}
	return fn(sess)
}
