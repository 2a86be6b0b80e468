package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/billsplit/billsplit/internal/models"
	"github.com/billsplit/billsplit/internal/service"
)

type createPersonRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (s *Server) handleCreatePerson(w http.ResponseWriter, r *http.Request) {
	var req createPersonRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	person, err := s.groups.CreatePerson(r.Context(), req.Name, req.Email, req.Phone)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, person)
}

func (s *Server) handleGetPerson(w http.ResponseWriter, r *http.Request) {
	person, err := s.groups.GetPerson(r.Context(), chi.URLParam(r, "personID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, person)
}

func (s *Server) handleListPersons(w http.ResponseWriter, r *http.Request) {
	persons, err := s.groups.ListPersons(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, persons)
}

type createGroupRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	CreatedBy   string   `json:"created_by"`
	MemberIDs   []string `json:"member_ids"`
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	group, err := s.groups.CreateGroup(r.Context(), req.Name, req.Description, req.CreatedBy, req.MemberIDs)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, group)
}

func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	group, err := s.groups.GetGroup(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, group)
}

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.groups.ListGroups(r.Context(), r.URL.Query().Get("created_by"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, groups)
}

type addMembersRequest struct {
	PersonIDs []string `json:"person_ids"`
}

func (s *Server) handleAddGroupMembers(w http.ResponseWriter, r *http.Request) {
	var req addMembersRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	group, err := s.groups.AddMembers(r.Context(), chi.URLParam(r, "groupID"), req.PersonIDs)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, group)
}

type shareRequest struct {
	PersonID    string           `json:"person_id"`
	SplitType   string           `json:"split_type"`
	Percentage  *decimal.Decimal `json:"percentage"`
	ExactAmount *decimal.Decimal `json:"exact_amount"`
	ShareUnits  *int64           `json:"share_units"`
}

type itemRequest struct {
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
	Shares []shareRequest  `json:"shares"`
}

type paidByRequest struct {
	PersonID string          `json:"person_id"`
	Amount   decimal.Decimal `json:"amount"`
}

type createBillRequest struct {
	Title      string          `json:"title"`
	Date       string          `json:"date"`
	GroupID    string          `json:"group_id"`
	IsPersonal bool            `json:"is_personal"`
	CreatedBy  string          `json:"created_by"`
	Items      []itemRequest   `json:"items"`
	PaidBy     []paidByRequest `json:"paid_by"`
}

func (s *Server) handleCreateBill(w http.ResponseWriter, r *http.Request) {
	var req createBillRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	in := service.CreateBillRequest{
		Title:      req.Title,
		Date:       req.Date,
		GroupID:    req.GroupID,
		IsPersonal: req.IsPersonal,
		CreatedBy:  req.CreatedBy,
	}
	for _, item := range req.Items {
		shares := make([]service.ShareInput, len(item.Shares))
		for j, share := range item.Shares {
			shares[j] = service.ShareInput{
				PersonID:    share.PersonID,
				SplitType:   models.SplitType(share.SplitType),
				Percentage:  share.Percentage,
				ExactAmount: share.ExactAmount,
				ShareUnits:  share.ShareUnits,
			}
		}
		in.Items = append(in.Items, service.ItemInput{Name: item.Name, Price: item.Price, Shares: shares})
	}
	for _, paidBy := range req.PaidBy {
		in.PaidBy = append(in.PaidBy, service.PaidByInput{PersonID: paidBy.PersonID, Amount: paidBy.Amount})
	}

	result, err := s.bills.CreateBill(r.Context(), in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

func (s *Server) handleGetBill(w http.ResponseWriter, r *http.Request) {
	detail, err := s.bills.GetBill(r.Context(), chi.URLParam(r, "billID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, detail)
}

func (s *Server) handleListBills(w http.ResponseWriter, r *http.Request) {
	bills, err := s.bills.ListBills(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, bills)
}

func (s *Server) handleListBillPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := s.payments.BillContributions(r.Context(), chi.URLParam(r, "billID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, payments)
}

func (s *Server) handleRecalculateOwed(w http.ResponseWriter, r *http.Request) {
	owed, err := s.bills.RecalculateOwed(r.Context(), chi.URLParam(r, "billID"), chi.URLParam(r, "personID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]decimal.Decimal{"owed_amount": owed})
}

func (s *Server) handleBillBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := s.balances.BillBalance(r.Context(), chi.URLParam(r, "billID"), chi.URLParam(r, "personID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, balance)
}

type billPaymentRequest struct {
	PersonID    string          `json:"person_id"`
	BillID      string          `json:"bill_id"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
}

func (s *Server) handleRecordBillPayment(w http.ResponseWriter, r *http.Request) {
	var req billPaymentRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	payment, err := s.payments.RecordBillPayment(r.Context(), req.PersonID, req.BillID, req.Amount, req.Date, req.Description)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, payment)
}

type settlementRequest struct {
	FromPersonID string          `json:"from_person_id"`
	ToPersonID   string          `json:"to_person_id"`
	Amount       decimal.Decimal `json:"amount"`
	Date         string          `json:"date"`
	Description  string          `json:"description"`
}

func (s *Server) handleRecordSettlement(w http.ResponseWriter, r *http.Request) {
	var req settlementRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	payment, err := s.payments.RecordSettlement(r.Context(), req.FromPersonID, req.ToPersonID, req.Amount, req.Date, req.Description)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, payment)
}

func (s *Server) handleOverallBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := s.balances.Overall(r.Context(), chi.URLParam(r, "personID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, balance)
}

func (s *Server) handleBalanceBetween(w http.ResponseWriter, r *http.Request) {
	balance, err := s.balances.BalanceBetween(r.Context(), chi.URLParam(r, "personID"), chi.URLParam(r, "otherID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, balance)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := s.balances.DashboardFor(r.Context(), chi.URLParam(r, "personID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dashboard)
}
