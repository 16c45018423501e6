package repositories

import (
	"github.com/blogem/household-budget/database"
)

// Repositories struct holds all repository interfaces
type Repositories struct {
	Audit      AuditRepository
	Attachment AttachmentRepository
	Budget     BudgetRepository
	Category   CategoryRepository
	Employer   EmployerRepository
	Expense    ExpenseRepository
	Fund       FundRepository
	Income     IncomeRepository
	Loan       LoanRepository
	Member     MemberRepository
	User       UserRepository
	Vendor     VendorRepository
}

// NewRepositories creates and initializes all repositories
func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Audit:      NewAuditRepository(db),
		Attachment: NewAttachmentRepository(db),
		Budget:     NewBudgetRepository(db),
		Category:   NewCategoryRepository(db),
		Employer:   NewEmployerRepository(db),
		Expense:    NewExpenseRepository(db),
		Fund:       NewFundRepository(db),
		Income:     NewIncomeRepository(db),
		Loan:       NewLoanRepository(db),
		Member:     NewMemberRepository(db),
		User:       NewUserRepository(db),
		Vendor:     NewVendorRepository(db),
	}
}
