package services

import (
	"github.com/sirupsen/logrus"

	"github.com/blogem/household-budget/database"
	"github.com/blogem/household-budget/repositories"
)

// Services holds all service instances
type Services struct {
	Audit      AuditService
	Attachment AttachmentService
	Budget     BudgetService
	Category   CategoryService
	Employer   EmployerService
	Expense    ExpenseService
	Fund       FundService
	Income     IncomeService
	Loan       LoanService
	Member     MemberService
	Vendor     VendorService
}

// NewServices creates and initializes all service instances
func NewServices(db *database.DB, repos *repositories.Repositories, logger *logrus.Logger) *Services {
	audit := NewAuditService(repos, logger)

	return &Services{
		Audit:      audit,
		Attachment: NewAttachmentService(db, repos, audit),
		Budget:     NewBudgetService(db, repos, audit),
		Category:   NewCategoryService(db, repos, audit),
		Employer:   NewEmployerService(db, repos, audit),
		Expense:    NewExpenseService(db, repos, audit),
		Fund:       NewFundService(db, repos, audit),
		Income:     NewIncomeService(db, repos, audit),
		Loan:       NewLoanService(db, repos, audit),
		Member:     NewMemberService(db, repos, audit),
		Vendor:     NewVendorService(db, repos, audit),
	}
}
