package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/groupledger/pkg/api"
)

// ExpenseServiceName is the fully-qualified name of the ExpenseService service.
const ExpenseServiceName = "groupledger.v1.ExpenseService"

// Procedure paths of the ExpenseService RPCs.
const (
	ExpenseServiceCreateExpenseProcedure       = "/groupledger.v1.ExpenseService/CreateExpense"
	ExpenseServiceListExpensesProcedure        = "/groupledger.v1.ExpenseService/ListExpenses"
	ExpenseServicePreviewSplitProcedure        = "/groupledger.v1.ExpenseService/PreviewSplit"
	ExpenseServiceGetInstallmentPlanProcedure  = "/groupledger.v1.ExpenseService/GetInstallmentPlan"
	ExpenseServicePayInstallmentProcedure      = "/groupledger.v1.ExpenseService/PayInstallment"
	ExpenseServiceListDueInstallmentsProcedure = "/groupledger.v1.ExpenseService/ListDueInstallments"
)

// ExpenseServiceHandler is implemented by the server side of ExpenseService.
type ExpenseServiceHandler interface {
	CreateExpense(context.Context, *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	PreviewSplit(context.Context, *connect.Request[api.PreviewSplitRequest]) (*connect.Response[api.PreviewSplitResponse], error)
	GetInstallmentPlan(context.Context, *connect.Request[api.GetInstallmentPlanRequest]) (*connect.Response[api.GetInstallmentPlanResponse], error)
	PayInstallment(context.Context, *connect.Request[api.PayInstallmentRequest]) (*connect.Response[api.PayInstallmentResponse], error)
	ListDueInstallments(context.Context, *connect.Request[api.ListDueInstallmentsRequest]) (*connect.Response[api.ListDueInstallmentsResponse], error)
}

// NewExpenseServiceHandler builds an HTTP handler for svc. It returns the path
// to mount the handler on and the handler itself.
func NewExpenseServiceHandler(svc ExpenseServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)

	handlers := map[string]http.Handler{
		ExpenseServiceCreateExpenseProcedure:       connect.NewUnaryHandler(ExpenseServiceCreateExpenseProcedure, svc.CreateExpense, opts...),
		ExpenseServiceListExpensesProcedure:        connect.NewUnaryHandler(ExpenseServiceListExpensesProcedure, svc.ListExpenses, opts...),
		ExpenseServicePreviewSplitProcedure:        connect.NewUnaryHandler(ExpenseServicePreviewSplitProcedure, svc.PreviewSplit, opts...),
		ExpenseServiceGetInstallmentPlanProcedure:  connect.NewUnaryHandler(ExpenseServiceGetInstallmentPlanProcedure, svc.GetInstallmentPlan, opts...),
		ExpenseServicePayInstallmentProcedure:      connect.NewUnaryHandler(ExpenseServicePayInstallmentProcedure, svc.PayInstallment, opts...),
		ExpenseServiceListDueInstallmentsProcedure: connect.NewUnaryHandler(ExpenseServiceListDueInstallmentsProcedure, svc.ListDueInstallments, opts...),
	}
	return "/" + ExpenseServiceName + "/", routeProcedures(handlers)
}

// ExpenseServiceClient is a client for ExpenseService.
type ExpenseServiceClient interface {
	CreateExpense(context.Context, *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	PreviewSplit(context.Context, *connect.Request[api.PreviewSplitRequest]) (*connect.Response[api.PreviewSplitResponse], error)
	GetInstallmentPlan(context.Context, *connect.Request[api.GetInstallmentPlanRequest]) (*connect.Response[api.GetInstallmentPlanResponse], error)
	PayInstallment(context.Context, *connect.Request[api.PayInstallmentRequest]) (*connect.Response[api.PayInstallmentResponse], error)
	ListDueInstallments(context.Context, *connect.Request[api.ListDueInstallmentsRequest]) (*connect.Response[api.ListDueInstallmentsResponse], error)
}

// NewExpenseServiceClient constructs a client for the ExpenseService served at baseURL.
func NewExpenseServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ExpenseServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
	return &expenseServiceClient{
		createExpense:       connect.NewClient[api.CreateExpenseRequest, api.CreateExpenseResponse](httpClient, baseURL+ExpenseServiceCreateExpenseProcedure, opts...),
		listExpenses:        connect.NewClient[api.ListExpensesRequest, api.ListExpensesResponse](httpClient, baseURL+ExpenseServiceListExpensesProcedure, opts...),
		previewSplit:        connect.NewClient[api.PreviewSplitRequest, api.PreviewSplitResponse](httpClient, baseURL+ExpenseServicePreviewSplitProcedure, opts...),
		getInstallmentPlan:  connect.NewClient[api.GetInstallmentPlanRequest, api.GetInstallmentPlanResponse](httpClient, baseURL+ExpenseServiceGetInstallmentPlanProcedure, opts...),
		payInstallment:      connect.NewClient[api.PayInstallmentRequest, api.PayInstallmentResponse](httpClient, baseURL+ExpenseServicePayInstallmentProcedure, opts...),
		listDueInstallments: connect.NewClient[api.ListDueInstallmentsRequest, api.ListDueInstallmentsResponse](httpClient, baseURL+ExpenseServiceListDueInstallmentsProcedure, opts...),
	}
}

type expenseServiceClient struct {
	createExpense       *connect.Client[api.CreateExpenseRequest, api.CreateExpenseResponse]
	listExpenses        *connect.Client[api.ListExpensesRequest, api.ListExpensesResponse]
	previewSplit        *connect.Client[api.PreviewSplitRequest, api.PreviewSplitResponse]
	getInstallmentPlan  *connect.Client[api.GetInstallmentPlanRequest, api.GetInstallmentPlanResponse]
	payInstallment      *connect.Client[api.PayInstallmentRequest, api.PayInstallmentResponse]
	listDueInstallments *connect.Client[api.ListDueInstallmentsRequest, api.ListDueInstallmentsResponse]
}

func (c *expenseServiceClient) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	return c.createExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *expenseServiceClient) PreviewSplit(ctx context.Context, req *connect.Request[api.PreviewSplitRequest]) (*connect.Response[api.PreviewSplitResponse], error) {
	return c.previewSplit.CallUnary(ctx, req)
}

func (c *expenseServiceClient) GetInstallmentPlan(ctx context.Context, req *connect.Request[api.GetInstallmentPlanRequest]) (*connect.Response[api.GetInstallmentPlanResponse], error) {
	return c.getInstallmentPlan.CallUnary(ctx, req)
}

func (c *expenseServiceClient) PayInstallment(ctx context.Context, req *connect.Request[api.PayInstallmentRequest]) (*connect.Response[api.PayInstallmentResponse], error) {
	return c.payInstallment.CallUnary(ctx, req)
}

func (c *expenseServiceClient) ListDueInstallments(ctx context.Context, req *connect.Request[api.ListDueInstallmentsRequest]) (*connect.Response[api.ListDueInstallmentsResponse], error) {
	return c.listDueInstallments.CallUnary(ctx, req)
}
