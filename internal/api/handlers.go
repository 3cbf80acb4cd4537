package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/spendwise/internal/expense"
	"github.com/Veraticus/spendwise/internal/model"
)

const dateLayout = "2006-01-02"

// UserRequest is the body of POST /api/v1/users.
type UserRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// UserResponse describes a user and their categories.
type UserResponse struct {
	ID         string             `json:"id"`
	Email      string             `json:"email"`
	FullName   string             `json:"full_name"`
	Categories []CategoryResponse `json:"categories,omitempty"`
}

// CategoryRequest is the body for creating or editing a category.
type CategoryRequest struct {
	Name  *string `json:"name"`
	Emoji *string `json:"emoji"`
}

// CategoryResponse describes a category.
type CategoryResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Emoji    string `json:"emoji"`
	IsSystem bool   `json:"is_system"`
}

// ExpenseRequest is the body for creating or editing an expense. Omitted
// fields are left unchanged on edit.
type ExpenseRequest struct {
	Amount     *decimal.Decimal `json:"amount"`
	Note       *string          `json:"note"`
	Date       *string          `json:"date"`
	CategoryID *string          `json:"category_id"`
}

// ExpenseResponse describes an expense.
type ExpenseResponse struct {
	ID           string          `json:"id"`
	Amount       decimal.Decimal `json:"amount"`
	Note         string          `json:"note"`
	Date         string          `json:"date"`
	CategoryID   string          `json:"category_id"`
	CategoryName string          `json:"category_name"`
}

// PreviewRequest is the body of POST /api/v1/expenses/categorize-preview.
type PreviewRequest struct {
	Note string `json:"note"`
}

// PreviewResponse is a resolved category and ranked alternatives.
type PreviewResponse struct {
	CategoryID   string             `json:"category_id,omitempty"`
	CategoryName string             `json:"category_name"`
	Emoji        string             `json:"emoji"`
	Suggestions  []model.Suggestion `json:"suggestions"`
	AIPowered    bool               `json:"ai_powered"`
}

// ReportRequest is the body of POST /api/v1/reports.
type ReportRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// CategoryTotalResponse is one row of a report.
type CategoryTotalResponse struct {
	CategoryID   string          `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Emoji        string          `json:"emoji"`
	Total        decimal.Decimal `json:"total"`
	Count        int             `json:"count"`
}

// ReportResponse summarizes spending over a date range.
type ReportResponse struct {
	StartDate  string                  `json:"start_date"`
	EndDate    string                  `json:"end_date"`
	Total      decimal.Decimal         `json:"total"`
	Count      int                     `json:"count"`
	ByCategory []CategoryTotalResponse `json:"by_category"`
}

func toCategory(cat model.Category) CategoryResponse {
	return CategoryResponse{ID: cat.ID, Name: cat.Name, Emoji: cat.Emoji, IsSystem: cat.IsSystem}
}

func toCategories(cats []model.Category) []CategoryResponse {
	out := make([]CategoryResponse, len(cats))
	for i, cat := range cats {
		out[i] = toCategory(cat)
	}
	return out
}

func toExpense(exp *model.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:           exp.ID,
		Amount:       exp.Amount,
		Note:         exp.Note,
		Date:         exp.Date.Format(dateLayout),
		CategoryID:   exp.CategoryID,
		CategoryName: exp.CategoryName,
	}
}

func toReport(r *model.Report) ReportResponse {
	rows := make([]CategoryTotalResponse, len(r.ByCategory))
	for i, t := range r.ByCategory {
		rows[i] = CategoryTotalResponse{
			CategoryID:   t.CategoryID,
			CategoryName: t.CategoryName,
			Emoji:        t.Emoji,
			Total:        t.Total,
			Count:        t.Count,
		}
	}
	return ReportResponse{
		StartDate:  r.Start.Format(dateLayout),
		EndDate:    r.End.Format(dateLayout),
		Total:      r.Total,
		Count:      r.Count,
		ByCategory: rows,
	}
}

func parseDate(field, value string) (time.Time, error) {
	d, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, badRequest(field + " must be a YYYY-MM-DD date")
	}
	return d, nil
}

func (s *Server) handleRegisterUser(c echo.Context) error {
	var req UserRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}

	user, cats, err := s.expenses.RegisterUser(c.Request().Context(), req.Email, req.FullName)
	if err != nil {
		return s.fail(err)
	}

	return c.JSON(http.StatusCreated, UserResponse{
		ID:         user.ID,
		Email:      user.Email,
		FullName:   user.FullName,
		Categories: toCategories(cats),
	})
}

func (s *Server) handleListCategories(c echo.Context) error {
	cats, err := s.expenses.ListCategories(c.Request().Context(), userID(c))
	if err != nil {
		return s.fail(err)
	}
	return c.JSON(http.StatusOK, toCategories(cats))
}

func (s *Server) handleCreateCategory(c echo.Context) error {
	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if req.Name == nil {
		return badRequest("name is required")
	}

	var emoji string
	if req.Emoji != nil {
		emoji = *req.Emoji
	}

	cat, err := s.expenses.CreateCategory(c.Request().Context(), userID(c), *req.Name, emoji)
	if err != nil {
		return s.fail(err)
	}
	return c.JSON(http.StatusCreated, toCategory(*cat))
}

func (s *Server) handleUpdateCategory(c echo.Context) error {
	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}

	cat, err := s.expenses.UpdateCategory(c.Request().Context(), userID(c), c.Param("id"),
		expense.CategoryUpdate{Name: req.Name, Emoji: req.Emoji})
	if err != nil {
		return s.fail(err)
	}
	return c.JSON(http.StatusOK, toCategory(*cat))
}

func (s *Server) handleDeleteCategory(c echo.Context) error {
	moved, err := s.expenses.DeleteCategory(c.Request().Context(), userID(c), c.Param("id"))
	if err != nil {
		return s.fail(err)
	}
	return c.JSON(http.StatusOK, map[string]int64{"reassigned": moved})
}

func (s *Server) handleCountExpenses(c echo.Context) error {
	count, err := s.expenses.CountExpenses(c.Request().Context(), userID(c), c.Param("id"))
	if err != nil {
		return s.fail(err)
	}
	return c.JSON(http.StatusOK, map[string]int{"count": count})
}

func (s *Server) handleListExpenses(c echo.Context) error {
	var filter model.ExpenseFilter

	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > expense.MaxPageSize {
			return badRequest("limit must be between 1 and " + strconv.Itoa(expense.MaxPageSize))
		}
		filter.Limit = n
	}
	if v := c.QueryParam("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return badRequest("offset must be a non-negative integer")
		}
		filter.Offset = n
	}
	if v := c.QueryParam("start_date"); v != "" {
		d, err := parseDate("start_date", v)
		if err != nil {
			return err
		}
		filter.StartDate = &d
	}
	if v := c.QueryParam("end_date"); v != "" {
		d, err := parseDate("end_date", v)
		if err != nil {
			return err
		}
		filter.EndDate = &d
	}
	filter.CategoryID = c.QueryParam("category_id")
	filter.Search = c.QueryParam("search")

	list, err := s.expenses.ListExpenses(c.Request().Context(), userID(c), filter)
	if err != nil {
		return s.fail(err)
	}

	out := make([]ExpenseResponse, len(list))
	for i := range list {
		out[i] = toExpense(&list[i])
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleCreateExpense(c echo.Context) error {
	var req ExpenseRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if req.Amount == nil {
		return badRequest("amount is required")
	}
	if req.Note == nil {
		return badRequest("note is required")
	}

	input := model.ExpenseInput{Amount: *req.Amount, Note: *req.Note}
	if req.Date != nil {
		d, err := parseDate("date", *req.Date)
		if err != nil {
			return err
		}
		input.Date = d
	}
	if req.CategoryID != nil {
		input.CategoryID = *req.CategoryID
	}

	exp, err := s.expenses.CreateExpense(c.Request().Context(), userID(c), input)
	if err != nil {
		return s.fail(err)
	}
	return c.JSON(http.StatusCreated, toExpense(exp))
}

func (s *Server) handleGetExpense(c echo.Context) error {
	exp, err := s.expenses.GetExpense(c.Request().Context(), userID(c), c.Param("id"))
	if err != nil {
		return s.fail(err)
	}
	return c.JSON(http.StatusOK, toExpense(exp))
}

func (s *Server) handleUpdateExpense(c echo.Context) error {
	var req ExpenseRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}

	update := model.ExpenseUpdate{
		Amount:     req.Amount,
		Note:       req.Note,
		CategoryID: req.CategoryID,
	}
	if req.Date != nil {
		d, err := parseDate("date", *req.Date)
		if err != nil {
			return err
		}
		update.Date = &d
	}

	exp, err := s.expenses.UpdateExpense(c.Request().Context(), userID(c), c.Param("id"), update)
	if err != nil {
		return s.fail(err)
	}
	return c.JSON(http.StatusOK, toExpense(exp))
}

func (s *Server) handleDeleteExpense(c echo.Context) error {
	if err := s.expenses.DeleteExpense(c.Request().Context(), userID(c), c.Param("id")); err != nil {
		return s.fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handlePreview(c echo.Context) error {
	var req PreviewRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	note, err := model.NormalizeNote(req.Note)
	if err != nil {
		return s.fail(err)
	}

	p := s.categorizer.Preview(c.Request().Context(), note, userID(c))
	suggestions := p.Suggestions
	if suggestions == nil {
		suggestions = model.Suggestions{}
	}

	return c.JSON(http.StatusOK, PreviewResponse{
		CategoryID:   p.CategoryID,
		CategoryName: p.CategoryName,
		Emoji:        p.Emoji,
		Suggestions:  suggestions,
		AIPowered:    p.AIPowered,
	})
}

func (s *Server) handleSuggestions(c echo.Context) error {
	note, err := model.NormalizeNote(c.QueryParam("note"))
	if err != nil {
		return s.fail(err)
	}

	suggestions := s.categorizer.SuggestWithClassifier(c.Request().Context(), note)
	if suggestions == nil {
		suggestions = model.Suggestions{}
	}
	return c.JSON(http.StatusOK, suggestions)
}

func (s *Server) handleReport(c echo.Context) error {
	var req ReportRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		return err
	}
	end, err := parseDate("end_date", req.EndDate)
	if err != nil {
		return err
	}

	report, err := s.expenses.Report(c.Request().Context(), userID(c), start, end)
	if err != nil {
		return s.fail(err)
	}
	return c.JSON(http.StatusOK, toReport(report))
}

func (s *Server) handleThisMonth(c echo.Context) error {
	report, err := s.expenses.ThisMonth(c.Request().Context(), userID(c))
	if err != nil {
		return s.fail(err)
	}
	return c.JSON(http.StatusOK, toReport(report))
}

func (s *Server) handleLastMonth(c echo.Context) error {
	report, err := s.expenses.LastMonth(c.Request().Context(), userID(c))
	if err != nil {
		return s.fail(err)
	}
	return c.JSON(http.StatusOK, toReport(report))
}

func (s *Server) handleMonthly(c echo.Context) error {
	months := 6
	if v := c.QueryParam("months"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return badRequest("months must be an integer")
		}
		months = n
	}

	reports, err := s.expenses.LastMonths(c.Request().Context(), userID(c), months)
	if err != nil {
		return s.fail(err)
	}

	out := make([]ReportResponse, len(reports))
	for i := range reports {
		out[i] = toReport(&reports[i])
	}
	return c.JSON(http.StatusOK, out)
}
