package loanValidator

import (
	"empowerment/services"
	"empowerment/validators"

	"github.com/gofiber/fiber/v2"
)

type ApplicationQuery struct {
	Decision string `query:"decision" json:"decision" validate:"omitempty,oneof=pending approved rejected"`
	Page     int    `query:"page"`
	Limit    int    `query:"limit"`
}

func (q ApplicationQuery) Filter() services.LoanApplicationFilter {
	return services.LoanApplicationFilter{
		Decision: q.Decision,
		Page:     services.Page{Page: q.Page, Limit: q.Limit},
	}
}

func Apply() fiber.Handler {
	return validators.Body[services.LoanApplicationInput]("validatedApplication")
}

func Decide() fiber.Handler {
	return validators.OptionalBody[services.DecisionInput]("validatedDecision")
}

func Repayment() fiber.Handler {
	return validators.Body[services.RepaymentInput]("validatedRepayment")
}

func LoanType() fiber.Handler {
	return validators.Body[services.LoanTypeInput]("validatedLoanType")
}

func List() fiber.Handler {
	return validators.Query[ApplicationQuery]("validatedFilter")
}

func Page() fiber.Handler {
	return validators.Query[services.Page]("validatedPage")
}

func RepaymentList() fiber.Handler {
	return validators.Query[services.RepaymentFilter]("validatedFilter")
}
