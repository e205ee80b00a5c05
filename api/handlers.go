package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"go-atm/input"
	"go-atm/models"
)

// WithdrawRequest debits one of the path customer's accounts.
type WithdrawRequest struct {
	AccountType string          `json:"accountType" binding:"required" label:"Account type"`
	Amount      decimal.Decimal `json:"amount"`
}

// TransferRequest moves money out of the path customer's account. An empty
// ToCustomerID means a transfer between the customer's own accounts.
type TransferRequest struct {
	ToCustomerID    string          `json:"toCustomerId"`
	FromAccountType string          `json:"fromAccountType" binding:"required" label:"From account type"`
	ToAccountType   string          `json:"toAccountType" binding:"required" label:"To account type"`
	Amount          decimal.Decimal `json:"amount"`
}

// CustomerResponse is returned once, at registration, and is the only
// response that carries the issued password.
type CustomerResponse struct {
	CustomerID     string          `json:"customerId"`
	Password       string          `json:"password"`
	SavingsBalance decimal.Decimal `json:"savingsBalance"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) status(c *gin.Context) {
	c.JSON(http.StatusOK, s.svc.Status())
}

func (s *Server) createCustomer(c *gin.Context) {
	var req input.Registration
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	cred, err := s.svc.Register(ctx, models.Profile{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
		Phone:   req.Phone,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	customer, err := s.svc.Customer(ctx, cred.CustomerID)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, CustomerResponse{
		CustomerID:     cred.CustomerID,
		Password:       cred.Password,
		SavingsBalance: customer.SavingsBalance,
		CurrentBalance: customer.CurrentBalance,
	})
}

func (s *Server) getCustomer(c *gin.Context) {
	customer, err := s.svc.Customer(c.Request.Context(), c.Param("customerId"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (s *Server) login(c *gin.Context) {
	var req input.Login
	if !bindJSON(c, &req) {
		return
	}
	sess, err := s.svc.Login(c.Request.Context(), req.CustomerID, req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (s *Server) logout(c *gin.Context) {
	id := c.Param("customerId")
	if err := s.svc.Logout(c.Request.Context(), id); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customerId": id, "status": "logged out"})
}

func (s *Server) changePassword(c *gin.Context) {
	var req input.PasswordChange
	if !bindJSON(c, &req) {
		return
	}
	id := c.Param("customerId")
	if err := s.svc.ChangePassword(c.Request.Context(), id, req.CurrentPassword, req.NewPassword); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customerId": id, "status": "password changed"})
}

func (s *Server) turn(c *gin.Context) {
	id := c.Param("customerId")
	c.JSON(http.StatusOK, gin.H{"customerId": id, "myTurn": s.svc.IsMyTurn(id)})
}

func (s *Server) getBalances(c *gin.Context) {
	b, err := s.svc.Inquire(c.Request.Context(), c.Param("customerId"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (s *Server) withdraw(c *gin.Context) {
	var req WithdrawRequest
	if !bindJSON(c, &req) {
		return
	}
	account, err := models.ParseAccountType(req.AccountType)
	if err != nil {
		s.writeError(c, err)
		return
	}

	receipt, err := s.svc.Withdraw(c.Request.Context(), c.Param("customerId"), account, req.Amount)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, receipt)
}

func (s *Server) transfer(c *gin.Context) {
	var req TransferRequest
	if !bindJSON(c, &req) {
		return
	}
	from, err := models.ParseAccountType(req.FromAccountType)
	if err != nil {
		s.writeError(c, err)
		return
	}
	to, err := models.ParseAccountType(req.ToAccountType)
	if err != nil {
		s.writeError(c, err)
		return
	}

	fromID := c.Param("customerId")
	toID := req.ToCustomerID
	if toID == "" {
		toID = fromID
	}
	receipt, err := s.svc.Transfer(c.Request.Context(), fromID, toID, from, to, req.Amount)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, receipt)
}
