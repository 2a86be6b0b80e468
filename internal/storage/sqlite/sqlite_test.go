package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/billsplit/billsplit/internal/models"
	"github.com/billsplit/billsplit/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func createPerson(t *testing.T, store *SQLiteStore, name string) *models.Person {
	t.Helper()
	person := &models.Person{Name: name}
	if err := store.CreatePerson(context.Background(), person); err != nil {
		t.Fatalf("failed to create person %s: %v", name, err)
	}
	return person
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func pdec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// equalBill builds a bill with a single equally-split item plus matching
// participant rows, persisted through CreateBill.
func equalBill(t *testing.T, store *SQLiteStore, title, price string, personIDs ...string) *models.Bill {
	t.Helper()

	shareCount := int64(len(personIDs))
	shares := make([]models.ItemShare, shareCount)
	participants := make([]*models.BillParticipant, shareCount)
	owed := dec(price).Div(decimal.NewFromInt(shareCount)).RoundBank(2)
	for i, id := range personIDs {
		shares[i] = models.ItemShare{PersonID: id, SplitType: models.SplitTypeEqual}
		participants[i] = &models.BillParticipant{PersonID: id, OwedAmount: owed}
	}

	bill := &models.Bill{
		Title:     title,
		Date:      "2026-08-15",
		CreatedBy: personIDs[0],
		Items: []models.Item{
			{Name: "Item", Price: dec(price), Shares: shares},
		},
	}
	if err := store.CreateBill(context.Background(), bill, participants, nil); err != nil {
		t.Fatalf("failed to create bill: %v", err)
	}
	return bill
}

func TestUnassignedPersonSeeded(t *testing.T) {
	store := newTestStore(t)

	person, err := store.GetPerson(context.Background(), models.UnassignedPersonID)
	if err != nil {
		t.Fatalf("unassigned person not seeded: %v", err)
	}
	if !person.IsUnassigned() {
		t.Errorf("seeded person %s is not the unassigned identity", person.ID)
	}
}

func TestPersonRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	person := &models.Person{Name: "Alice", Email: "alice@example.com", Phone: "555-0100"}
	if err := store.CreatePerson(ctx, person); err != nil {
		t.Fatalf("CreatePerson failed: %v", err)
	}
	if person.ID == "" || person.CreatedAt == 0 {
		t.Fatalf("CreatePerson did not populate ID/CreatedAt: %+v", person)
	}

	got, err := store.GetPerson(ctx, person.ID)
	if err != nil {
		t.Fatalf("GetPerson failed: %v", err)
	}
	if got.Name != "Alice" || got.Email != "alice@example.com" || got.Phone != "555-0100" {
		t.Errorf("GetPerson returned %+v", got)
	}
}

func TestGetPersonNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetPerson(context.Background(), uuid.New().String())
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGroupRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createPerson(t, store, "Alice")
	bob := createPerson(t, store, "Bob")
	carol := createPerson(t, store, "Carol")

	group := &models.Group{
		Name:      "Roommates",
		CreatedBy: alice.ID,
		MemberIDs: []string{alice.ID, bob.ID},
	}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	got, err := store.GetGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if len(got.MemberIDs) != 2 {
		t.Fatalf("expected 2 members, got %d", len(got.MemberIDs))
	}

	// Re-adding bob must be a no-op.
	if err := store.AddGroupMembers(ctx, group.ID, []string{bob.ID, carol.ID}); err != nil {
		t.Fatalf("AddGroupMembers failed: %v", err)
	}
	got, err = store.GetGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if len(got.MemberIDs) != 3 {
		t.Errorf("expected 3 members after add, got %d", len(got.MemberIDs))
	}

	groups, err := store.ListGroups(ctx, bob.ID)
	if err != nil {
		t.Fatalf("ListGroups failed: %v", err)
	}
	if len(groups) != 0 {
		t.Errorf("expected no groups created by bob, got %d", len(groups))
	}
}

func TestCreateBillRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createPerson(t, store, "Alice")
	bob := createPerson(t, store, "Bob")

	units := int64(3)
	bill := &models.Bill{
		Title:     "Trip",
		Date:      "2026-08-20",
		CreatedBy: alice.ID,
		Items: []models.Item{
			{
				Name:  "Hotel",
				Price: dec("200.00"),
				Shares: []models.ItemShare{
					{PersonID: alice.ID, SplitType: models.SplitTypePercentage, Percentage: pdec("75")},
					{PersonID: bob.ID, SplitType: models.SplitTypePercentage, Percentage: pdec("25")},
				},
			},
			{
				Name:  "Tickets",
				Price: dec("90.00"),
				Shares: []models.ItemShare{
					{PersonID: alice.ID, SplitType: models.SplitTypeShares, ShareUnits: &units},
				},
			},
		},
	}
	participants := []*models.BillParticipant{
		{PersonID: alice.ID, OwedAmount: dec("240.00")},
		{PersonID: bob.ID, OwedAmount: dec("50.00")},
	}
	payments := []*models.Payment{
		{Type: models.PaymentTypeBill, PersonID: alice.ID, Amount: dec("290.00"), Date: "2026-08-20"},
	}

	if err := store.CreateBill(ctx, bill, participants, payments); err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}

	got, err := store.GetBill(ctx, bill.ID)
	if err != nil {
		t.Fatalf("GetBill failed: %v", err)
	}
	if len(got.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got.Items))
	}
	hotel := got.Items[0]
	if len(hotel.Shares) != 2 {
		t.Fatalf("expected 2 hotel shares, got %d", len(hotel.Shares))
	}
	if hotel.Shares[0].Percentage == nil || !hotel.Shares[0].Percentage.Equal(dec("75")) {
		t.Errorf("hotel share 0 percentage = %v, want 75", hotel.Shares[0].Percentage)
	}
	tickets := got.Items[1]
	if tickets.Shares[0].ShareUnits == nil || *tickets.Shares[0].ShareUnits != 3 {
		t.Errorf("tickets share units = %v, want 3", tickets.Shares[0].ShareUnits)
	}
	if !got.TotalAmount().Equal(dec("290.00")) {
		t.Errorf("total amount = %s, want 290.00", got.TotalAmount())
	}

	listed, err := store.ListBillPayments(ctx, bill.ID)
	if err != nil {
		t.Fatalf("ListBillPayments failed: %v", err)
	}
	if len(listed) != 1 || !listed[0].Amount.Equal(dec("290.00")) {
		t.Errorf("ListBillPayments returned %+v", listed)
	}
}

func TestCreateBillPaymentMissingBill(t *testing.T) {
	store := newTestStore(t)

	alice := createPerson(t, store, "Alice")
	payment := &models.Payment{
		Type:     models.PaymentTypeBill,
		PersonID: alice.ID,
		BillID:   uuid.New().String(),
		Amount:   dec("10.00"),
		Date:     "2026-08-20",
	}
	_, err := store.CreateBillPayment(context.Background(), payment)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing bill, got %v", err)
	}
}

func TestCreateBillPaymentEnsuresParticipant(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createPerson(t, store, "Alice")
	bob := createPerson(t, store, "Bob")
	carol := createPerson(t, store, "Carol")
	bill := equalBill(t, store, "Dinner", "30.00", alice.ID, bob.ID)

	payment := &models.Payment{
		Type:     models.PaymentTypeBill,
		PersonID: carol.ID,
		BillID:   bill.ID,
		Amount:   dec("12.50"),
		Date:     "2026-08-20",
	}
	created, err := store.CreateBillPayment(ctx, payment)
	if err != nil {
		t.Fatalf("CreateBillPayment failed: %v", err)
	}
	if !created {
		t.Error("expected participant row to be created for carol")
	}

	participant, err := store.GetParticipant(ctx, bill.ID, carol.ID)
	if err != nil {
		t.Fatalf("GetParticipant failed: %v", err)
	}
	if !participant.OwedAmount.IsZero() {
		t.Errorf("carol owes %s, want 0 (no shares)", participant.OwedAmount)
	}

	// A second payment by an existing participant creates no new row.
	created, err = store.CreateBillPayment(ctx, &models.Payment{
		Type:     models.PaymentTypeBill,
		PersonID: alice.ID,
		BillID:   bill.ID,
		Amount:   dec("5.00"),
		Date:     "2026-08-21",
	})
	if err != nil {
		t.Fatalf("CreateBillPayment failed: %v", err)
	}
	if created {
		t.Error("expected no participant row creation for alice")
	}

	paid, err := store.SumBillPayments(ctx, bill.ID, carol.ID)
	if err != nil {
		t.Fatalf("SumBillPayments failed: %v", err)
	}
	if !paid.Equal(dec("12.50")) {
		t.Errorf("carol paid %s, want 12.50", paid)
	}
}

func TestCreateSettlementPair(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createPerson(t, store, "Alice")
	bob := createPerson(t, store, "Bob")

	out := &models.Payment{
		ID:            uuid.New().String(),
		Type:          models.PaymentTypeSettlement,
		PersonID:      alice.ID,
		OtherPersonID: bob.ID,
		Amount:        dec("25.00"),
		Date:          "2026-08-22",
	}
	in := &models.Payment{
		ID:            uuid.New().String(),
		Type:          models.PaymentTypeSettlement,
		PersonID:      bob.ID,
		OtherPersonID: alice.ID,
		Amount:        dec("-25.00"),
		Date:          "2026-08-22",
	}
	out.PairedPaymentID = in.ID
	in.PairedPaymentID = out.ID

	if err := store.CreateSettlementPair(ctx, out, in); err != nil {
		t.Fatalf("CreateSettlementPair failed: %v", err)
	}

	aliceNet, err := store.SumSettlementsBetween(ctx, alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("SumSettlementsBetween failed: %v", err)
	}
	if !aliceNet.Equal(dec("25.00")) {
		t.Errorf("alice net vs bob = %s, want 25.00", aliceNet)
	}

	bobNet, err := store.SumSettlementsBetween(ctx, bob.ID, alice.ID)
	if err != nil {
		t.Fatalf("SumSettlementsBetween failed: %v", err)
	}
	if !bobNet.Equal(dec("-25.00")) {
		t.Errorf("bob net vs alice = %s, want -25.00", bobNet)
	}

	if !aliceNet.Add(bobNet).IsZero() {
		t.Errorf("settlement legs do not cancel: %s + %s", aliceNet, bobNet)
	}
}

func TestRecalculateOwed(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createPerson(t, store, "Alice")
	bob := createPerson(t, store, "Bob")
	bill := equalBill(t, store, "Dinner", "30.00", alice.ID, bob.ID)

	before, err := store.GetParticipant(ctx, bill.ID, bob.ID)
	if err != nil {
		t.Fatalf("GetParticipant failed: %v", err)
	}

	owed, err := store.RecalculateOwed(ctx, bill.ID, bob.ID)
	if err != nil {
		t.Fatalf("RecalculateOwed failed: %v", err)
	}
	if !owed.Equal(dec("15.00")) {
		t.Errorf("owed = %s, want 15.00", owed)
	}

	after, err := store.GetParticipant(ctx, bill.ID, bob.ID)
	if err != nil {
		t.Fatalf("GetParticipant failed: %v", err)
	}
	if after.Version != before.Version+1 {
		t.Errorf("version = %d, want %d", after.Version, before.Version+1)
	}
}

func TestRecalculateOwedMissingParticipant(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createPerson(t, store, "Alice")
	carol := createPerson(t, store, "Carol")
	bill := equalBill(t, store, "Solo", "10.00", alice.ID)

	_, err := store.RecalculateOwed(ctx, bill.ID, carol.ID)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSumOwedByPerson(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createPerson(t, store, "Alice")
	bob := createPerson(t, store, "Bob")
	equalBill(t, store, "Dinner", "30.00", alice.ID, bob.ID)
	equalBill(t, store, "Taxi", "20.00", alice.ID, bob.ID)

	owed, err := store.SumOwedByPerson(ctx, bob.ID)
	if err != nil {
		t.Fatalf("SumOwedByPerson failed: %v", err)
	}
	if !owed.Equal(dec("25.00")) {
		t.Errorf("bob owes %s across bills, want 25.00", owed)
	}
}
