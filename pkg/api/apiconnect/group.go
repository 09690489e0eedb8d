package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/groupledger/pkg/api"
)

// GroupServiceName is the fully-qualified name of the GroupService service.
const GroupServiceName = "groupledger.v1.GroupService"

// Procedure paths of the GroupService RPCs.
const (
	GroupServiceCreateGroupProcedure        = "/groupledger.v1.GroupService/CreateGroup"
	GroupServiceGetGroupProcedure           = "/groupledger.v1.GroupService/GetGroup"
	GroupServiceListGroupsProcedure         = "/groupledger.v1.GroupService/ListGroups"
	GroupServiceAddMemberProcedure          = "/groupledger.v1.GroupService/AddMember"
	GroupServiceDeleteGroupProcedure        = "/groupledger.v1.GroupService/DeleteGroup"
	GroupServiceGetGroupBalancesProcedure   = "/groupledger.v1.GroupService/GetGroupBalances"
	GroupServiceRecordSettlementProcedure   = "/groupledger.v1.GroupService/RecordSettlement"
	GroupServiceGetMonthlyAnalysisProcedure = "/groupledger.v1.GroupService/GetMonthlyAnalysis"
)

// GroupServiceHandler is implemented by the server side of GroupService.
type GroupServiceHandler interface {
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	ListGroups(context.Context, *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error)
	AddMember(context.Context, *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error)
	DeleteGroup(context.Context, *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error)
	GetGroupBalances(context.Context, *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error)
	RecordSettlement(context.Context, *connect.Request[api.RecordSettlementRequest]) (*connect.Response[api.RecordSettlementResponse], error)
	GetMonthlyAnalysis(context.Context, *connect.Request[api.GetMonthlyAnalysisRequest]) (*connect.Response[api.GetMonthlyAnalysisResponse], error)
}

// NewGroupServiceHandler builds an HTTP handler for svc. It returns the path
// to mount the handler on and the handler itself.
func NewGroupServiceHandler(svc GroupServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)

	handlers := map[string]http.Handler{
		GroupServiceCreateGroupProcedure:        connect.NewUnaryHandler(GroupServiceCreateGroupProcedure, svc.CreateGroup, opts...),
		GroupServiceGetGroupProcedure:           connect.NewUnaryHandler(GroupServiceGetGroupProcedure, svc.GetGroup, opts...),
		GroupServiceListGroupsProcedure:         connect.NewUnaryHandler(GroupServiceListGroupsProcedure, svc.ListGroups, opts...),
		GroupServiceAddMemberProcedure:          connect.NewUnaryHandler(GroupServiceAddMemberProcedure, svc.AddMember, opts...),
		GroupServiceDeleteGroupProcedure:        connect.NewUnaryHandler(GroupServiceDeleteGroupProcedure, svc.DeleteGroup, opts...),
		GroupServiceGetGroupBalancesProcedure:   connect.NewUnaryHandler(GroupServiceGetGroupBalancesProcedure, svc.GetGroupBalances, opts...),
		GroupServiceRecordSettlementProcedure:   connect.NewUnaryHandler(GroupServiceRecordSettlementProcedure, svc.RecordSettlement, opts...),
		GroupServiceGetMonthlyAnalysisProcedure: connect.NewUnaryHandler(GroupServiceGetMonthlyAnalysisProcedure, svc.GetMonthlyAnalysis, opts...),
	}
	return "/" + GroupServiceName + "/", routeProcedures(handlers)
}

// GroupServiceClient is a client for GroupService.
type GroupServiceClient interface {
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	ListGroups(context.Context, *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error)
	AddMember(context.Context, *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error)
	DeleteGroup(context.Context, *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error)
	GetGroupBalances(context.Context, *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error)
	RecordSettlement(context.Context, *connect.Request[api.RecordSettlementRequest]) (*connect.Response[api.RecordSettlementResponse], error)
	GetMonthlyAnalysis(context.Context, *connect.Request[api.GetMonthlyAnalysisRequest]) (*connect.Response[api.GetMonthlyAnalysisResponse], error)
}

// NewGroupServiceClient constructs a client for the GroupService served at baseURL.
func NewGroupServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) GroupServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
	return &groupServiceClient{
		createGroup:        connect.NewClient[api.CreateGroupRequest, api.CreateGroupResponse](httpClient, baseURL+GroupServiceCreateGroupProcedure, opts...),
		getGroup:           connect.NewClient[api.GetGroupRequest, api.GetGroupResponse](httpClient, baseURL+GroupServiceGetGroupProcedure, opts...),
		listGroups:         connect.NewClient[api.ListGroupsRequest, api.ListGroupsResponse](httpClient, baseURL+GroupServiceListGroupsProcedure, opts...),
		addMember:          connect.NewClient[api.AddMemberRequest, api.AddMemberResponse](httpClient, baseURL+GroupServiceAddMemberProcedure, opts...),
		deleteGroup:        connect.NewClient[api.DeleteGroupRequest, api.DeleteGroupResponse](httpClient, baseURL+GroupServiceDeleteGroupProcedure, opts...),
		getGroupBalances:   connect.NewClient[api.GetGroupBalancesRequest, api.GetGroupBalancesResponse](httpClient, baseURL+GroupServiceGetGroupBalancesProcedure, opts...),
		recordSettlement:   connect.NewClient[api.RecordSettlementRequest, api.RecordSettlementResponse](httpClient, baseURL+GroupServiceRecordSettlementProcedure, opts...),
		getMonthlyAnalysis: connect.NewClient[api.GetMonthlyAnalysisRequest, api.GetMonthlyAnalysisResponse](httpClient, baseURL+GroupServiceGetMonthlyAnalysisProcedure, opts...),
	}
}

type groupServiceClient struct {
	createGroup        *connect.Client[api.CreateGroupRequest, api.CreateGroupResponse]
	getGroup           *connect.Client[api.GetGroupRequest, api.GetGroupResponse]
	listGroups         *connect.Client[api.ListGroupsRequest, api.ListGroupsResponse]
	addMember          *connect.Client[api.AddMemberRequest, api.AddMemberResponse]
	deleteGroup        *connect.Client[api.DeleteGroupRequest, api.DeleteGroupResponse]
	getGroupBalances   *connect.Client[api.GetGroupBalancesRequest, api.GetGroupBalancesResponse]
	recordSettlement   *connect.Client[api.RecordSettlementRequest, api.RecordSettlementResponse]
	getMonthlyAnalysis *connect.Client[api.GetMonthlyAnalysisRequest, api.GetMonthlyAnalysisResponse]
}

func (c *groupServiceClient) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	return c.listGroups.CallUnary(ctx, req)
}

func (c *groupServiceClient) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	return c.addMember.CallUnary(ctx, req)
}

func (c *groupServiceClient) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	return c.deleteGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	return c.getGroupBalances.CallUnary(ctx, req)
}

func (c *groupServiceClient) RecordSettlement(ctx context.Context, req *connect.Request[api.RecordSettlementRequest]) (*connect.Response[api.RecordSettlementResponse], error) {
	return c.recordSettlement.CallUnary(ctx, req)
}

func (c *groupServiceClient) GetMonthlyAnalysis(ctx context.Context, req *connect.Request[api.GetMonthlyAnalysisRequest]) (*connect.Response[api.GetMonthlyAnalysisResponse], error) {
	return c.getMonthlyAnalysis.CallUnary(ctx, req)
}

// routeProcedures dispatches on the request path to the handler of each procedure.
func routeProcedures(handlers map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}
