package controllers

import (
	"github.com/blogem/household-budget/services"
)

// Controllers holds all controller instances
type Controllers struct {
	Attachment  *AttachmentController
	Budget      *BudgetController
	Category    *CategoryController
	Deposit     *DepositController
	Employer    *EmployerController
	Expense     *ExpenseController
	Fund        *FundController
	Income      *IncomeController
	Loan        *LoanController
	Member      *MemberController
	Subcategory *SubcategoryController
	Vendor      *VendorController
}

// NewControllers creates and initializes all controller instances
func NewControllers(services *services.Services) *Controllers {
	return &Controllers{
		Attachment:  NewAttachmentController(services),
		Budget:      NewBudgetController(services),
		Category:    NewCategoryController(services),
		Deposit:     NewDepositController(services),
		Employer:    NewEmployerController(services),
		Expense:     NewExpenseController(services),
		Fund:        NewFundController(services),
		Income:      NewIncomeController(services),
		Loan:        NewLoanController(services),
		Member:      NewMemberController(services),
		Subcategory: NewSubcategoryController(services),
		Vendor:      NewVendorController(services),
	}
}
