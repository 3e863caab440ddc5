package service

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/aftersales-service/internal/domain"
	"github.com/spec-kit/aftersales-service/internal/events"
	apperrors "github.com/spec-kit/aftersales-service/pkg/util/errorutil"
)

var testClock = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	service       *RequestService
	requests      *fakeRequestRepo
	activities    *fakeActivityRepo
	costs         *fakeCostRepo
	customers     *fakeCustomerRepo
	products      *fakeProductRepo
	departments   *fakeDepartmentRepo
	users         *fakeUserRepo
	dispatcher    events.Dispatcher
	published     []events.Event
	homeAppliance *domain.Department
	solar         *domain.Department
	manager       *domain.User
	deptManager   *domain.User
	supervisor    *domain.User
	techHA        *domain.User
	techSolar     *domain.User
	customer      *domain.Customer
	routerProduct *domain.Product
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		requests:    newFakeRequestRepo(),
		activities:  &fakeActivityRepo{},
		costs:       &fakeCostRepo{},
		customers:   &fakeCustomerRepo{customers: map[string]*domain.Customer{}},
		products:    &fakeProductRepo{products: map[string]*domain.Product{}},
		departments: &fakeDepartmentRepo{departments: map[string]*domain.Department{}},
		users:       &fakeUserRepo{users: map[string]*domain.User{}},
	}

	seedDept := func(id, name string) *domain.Department {
		dept := &domain.Department{ID: id, Name: name, IsActive: true}
		f.departments.departments[id] = dept
		return dept
	}
	f.homeAppliance = seedDept("dept-ha", "Home Appliances")
	f.solar = seedDept("dept-solar", "Solar Energy")
	seedDept("dept-net", "Networking")
	seedDept("dept-print", "Printing")

	seedUser := func(id string, role domain.Role, deptID *string) *domain.User {
		user := &domain.User{ID: id, Name: id, Email: id + "@svc.test", Role: role, DepartmentID: deptID, Active: true}
		f.users.users[id] = user
		return user
	}
	f.manager = seedUser("u-manager", domain.RoleCompanyManager, nil)
	f.deptManager = seedUser("u-dm", domain.RoleDepartmentManager, &f.homeAppliance.ID)
	f.supervisor = seedUser("u-sup", domain.RoleSectionSupervisor, &f.homeAppliance.ID)
	f.techHA = seedUser("u-tech-ha", domain.RoleTechnician, &f.homeAppliance.ID)
	f.techSolar = seedUser("u-tech-solar", domain.RoleTechnician, &f.solar.ID)

	f.customer = &domain.Customer{ID: "cust-1", Name: "Ali Hassan", Phone: "0555-100"}
	f.customers.customers[f.customer.ID] = f.customer

	f.routerProduct = &domain.Product{ID: "prod-1", Name: "Archer AX55", Brand: "TP-Link", DepartmentID: "dept-net"}
	f.products.products[f.routerProduct.ID] = f.routerProduct

	dispatcher := events.NewInMemoryDispatcher()
	f.dispatcher = dispatcher
	for _, eventType := range []events.EventType{
		events.EventRequestCreated, events.EventRequestStatusChanged,
		events.EventRequestAssigned, events.EventRequestCostAdded, events.EventRequestClosed,
	} {
		dispatcher.Subscribe(eventType, func(_ context.Context, event events.Event) error {
			f.published = append(f.published, event)
			return nil
		})
	}

	f.service = NewRequestService(RequestDependencies{
		RequestRepo:    f.requests,
		ActivityRepo:   f.activities,
		CostRepo:       f.costs,
		CustomerRepo:   f.customers,
		ProductRepo:    f.products,
		DepartmentRepo: f.departments,
		UserRepo:       f.users,
		Dispatcher:     dispatcher,
		Now:            func() time.Time { return testClock },
	})
	return f
}

func (f *fixture) createRequest(t *testing.T, input CreateInput, actor *domain.User) *domain.Request {
	t.Helper()
	request, err := f.service.Create(context.Background(), input, actor)
	require.NoError(t, err)
	return request
}

func validInput() CreateInput {
	return CreateInput{
		CustomerID:       "cust-1",
		IssueDescription: "AC not cooling",
		ExecutionMethod:  domain.ExecutionWorkshop,
		WarrantyStatus:   domain.WarrantyUnderWarranty,
	}
}

func TestCreateRoutesByKeyword(t *testing.T) {
	f := newFixture(t)

	request := f.createRequest(t, validInput(), f.supervisor)
	assert.Equal(t, "dept-ha", request.DepartmentID)

	input := validInput()
	input.IssueDescription = "solar inverter shuts down at noon"
	request = f.createRequest(t, input, f.supervisor)
	assert.Equal(t, "dept-solar", request.DepartmentID)
}

func TestCreateRoutesByProductDepartment(t *testing.T) {
	f := newFixture(t)

	input := validInput()
	input.ProductID = &f.routerProduct.ID
	// product department takes precedence over keyword routing
	request := f.createRequest(t, input, f.supervisor)
	assert.Equal(t, "dept-net", request.DepartmentID)
}

func TestCreateFallbackRouting(t *testing.T) {
	f := newFixture(t)

	input := validInput()
	input.IssueDescription = "device behaves strangely"
	request := f.createRequest(t, input, f.supervisor)
	assert.Equal(t, "dept-ha", request.DepartmentID)
}

func TestCreateRequestNumberSequence(t *testing.T) {
	f := newFixture(t)

	first := f.createRequest(t, validInput(), f.supervisor)
	second := f.createRequest(t, validInput(), f.supervisor)

	assert.Equal(t, "REQ240301-001", first.RequestNumber)
	assert.Equal(t, "REQ240301-002", second.RequestNumber)
}

func TestCreateDefaults(t *testing.T) {
	f := newFixture(t)

	input := validInput()
	input.ExecutionMethod = domain.ExecutionOnSite
	request := f.createRequest(t, input, f.supervisor)

	assert.Equal(t, domain.RequestStatusNew, request.Status)
	assert.Equal(t, domain.RequestPriorityNormal, request.Priority)
	assert.Equal(t, f.supervisor.ID, request.ReceivedByID)
	// under warranty on-site: 168h + 48h buffer
	assert.Equal(t, testClock.Add(216*time.Hour), request.SLADueDate)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)

	cases := []struct {
		name   string
		mutate func(*CreateInput)
	}{
		{"missing customer", func(in *CreateInput) { in.CustomerID = "" }},
		{"unknown customer", func(in *CreateInput) { in.CustomerID = "cust-missing" }},
		{"missing description", func(in *CreateInput) { in.IssueDescription = "  " }},
		{"bad execution method", func(in *CreateInput) { in.ExecutionMethod = "DRIVE_BY" }},
		{"bad warranty status", func(in *CreateInput) { in.WarrantyStatus = "MAYBE" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput()
			tc.mutate(&input)
			_, err := f.service.Create(context.Background(), input, f.supervisor)
			require.Error(t, err)
			assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
		})
	}
}

func TestCreateWritesAuditAndEvent(t *testing.T) {
	f := newFixture(t)

	request := f.createRequest(t, validInput(), f.supervisor)

	activities := f.activities.byRequest(request.ID)
	require.Len(t, activities, 1)
	assert.Equal(t, domain.ActivityCreated, activities[0].Kind)
	assert.Equal(t, f.supervisor.ID, activities[0].UserID)

	require.Len(t, f.published, 1)
	assert.Equal(t, events.EventRequestCreated, f.published[0].Type)
	payload, ok := f.published[0].Payload.(events.RequestCreatedPayload)
	require.True(t, ok)
	assert.Equal(t, request.RequestNumber, payload.RequestNumber)
	assert.Equal(t, "dept-ha", payload.DepartmentID)
}

func TestUpdateStatusTechnicianForbidden(t *testing.T) {
	f := newFixture(t)
	request := f.createRequest(t, validInput(), f.supervisor)

	_, err := f.service.AssignTechnician(context.Background(), request.ID, f.techHA.ID, f.supervisor)
	require.NoError(t, err)

	// even on their own request a technician cannot change status
	_, err = f.service.UpdateStatus(context.Background(), request.ID, domain.RequestStatusUnderInspection, "", f.techHA)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
}

func TestUpdateStatusInvalidTransition(t *testing.T) {
	f := newFixture(t)
	request := f.createRequest(t, validInput(), f.supervisor)

	_, err := f.service.UpdateStatus(context.Background(), request.ID, domain.RequestStatusCompleted, "", f.supervisor)
	require.NoError(t, err)

	// completed may only move to closed
	_, err = f.service.UpdateStatus(context.Background(), request.ID, domain.RequestStatusInRepair, "", f.supervisor)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))

	_, err = f.service.UpdateStatus(context.Background(), request.ID, domain.RequestStatus("PENDING"), "", f.supervisor)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestUpdateStatusStampsTimestampsOnce(t *testing.T) {
	f := newFixture(t)
	request := f.createRequest(t, validInput(), f.supervisor)

	updated, err := f.service.UpdateStatus(context.Background(), request.ID, domain.RequestStatusUnderInspection, "", f.supervisor)
	require.NoError(t, err)
	require.NotNil(t, updated.StartedAt)
	firstStart := *updated.StartedAt

	_, err = f.service.UpdateStatus(context.Background(), request.ID, domain.RequestStatusWaitingParts, "", f.supervisor)
	require.NoError(t, err)
	updated, err = f.service.UpdateStatus(context.Background(), request.ID, domain.RequestStatusUnderInspection, "back to bench", f.supervisor)
	require.NoError(t, err)

	require.NotNil(t, updated.StartedAt)
	assert.Equal(t, firstStart, *updated.StartedAt)
}

func TestAssignTechnicianDepartmentScope(t *testing.T) {
	f := newFixture(t)
	request := f.createRequest(t, validInput(), f.supervisor)

	// supervisor of Home Appliances cannot place a Solar technician
	_, err := f.service.AssignTechnician(context.Background(), request.ID, f.techSolar.ID, f.supervisor)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))

	// manager-level roles may assign across departments
	updated, err := f.service.AssignTechnician(context.Background(), request.ID, f.techSolar.ID, f.manager)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatusAssigned, updated.Status)
	require.NotNil(t, updated.AssignedTechnicianID)
	assert.Equal(t, f.techSolar.ID, *updated.AssignedTechnicianID)
	require.NotNil(t, updated.AssignedAt)
}

func TestAssignTechnicianValidation(t *testing.T) {
	f := newFixture(t)
	request := f.createRequest(t, validInput(), f.supervisor)

	_, err := f.service.AssignTechnician(context.Background(), request.ID, "u-missing", f.supervisor)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))

	_, err = f.service.AssignTechnician(context.Background(), request.ID, f.deptManager.ID, f.supervisor)
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))

	f.techHA.Active = false
	_, err = f.service.AssignTechnician(context.Background(), request.ID, f.techHA.ID, f.supervisor)
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))

	_, err = f.service.AssignTechnician(context.Background(), request.ID, f.techHA.ID, f.techSolar)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
}

func TestReassignmentCarriesPreviousTechnician(t *testing.T) {
	f := newFixture(t)
	request := f.createRequest(t, validInput(), f.supervisor)

	_, err := f.service.AssignTechnician(context.Background(), request.ID, f.techHA.ID, f.supervisor)
	require.NoError(t, err)
	_, err = f.service.AssignTechnician(context.Background(), request.ID, f.techSolar.ID, f.manager)
	require.NoError(t, err)

	var assignEvents []events.Event
	for _, event := range f.published {
		if event.Type == events.EventRequestAssigned {
			assignEvents = append(assignEvents, event)
		}
	}
	require.Len(t, assignEvents, 2)

	payload, ok := assignEvents[1].Payload.(events.RequestAssignedPayload)
	require.True(t, ok)
	assert.Equal(t, f.techSolar.ID, payload.TechnicianID)
	require.NotNil(t, payload.PrevTechnicianID)
	assert.Equal(t, f.techHA.ID, *payload.PrevTechnicianID)
}

func TestAddCostUnderWarrantyRequiresManagerLevel(t *testing.T) {
	f := newFixture(t)
	request := f.createRequest(t, validInput(), f.supervisor)
	cost := CostInput{Description: "compressor", Amount: 140, CostType: domain.CostTypeSpareParts}

	_, err := f.service.AddCost(context.Background(), request.ID, cost, f.supervisor)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))

	created, err := f.service.AddCost(context.Background(), request.ID, cost, f.manager)
	require.NoError(t, err)
	assert.Equal(t, "USD", created.Currency)
	assert.Equal(t, f.manager.ID, created.AddedByID)
}

func TestAddCostOutOfWarranty(t *testing.T) {
	f := newFixture(t)
	input := validInput()
	input.WarrantyStatus = domain.WarrantyOutOfWarranty
	request := f.createRequest(t, input, f.supervisor)

	created, err := f.service.AddCost(context.Background(), request.ID,
		CostInput{Description: "labor", Amount: 50, Currency: "SAR", CostType: domain.CostTypeLabor}, f.supervisor)
	require.NoError(t, err)
	assert.Equal(t, "SAR", created.Currency)

	_, err = f.service.AddCost(context.Background(), request.ID,
		CostInput{Description: "bad", Amount: -3, CostType: domain.CostTypeOther}, f.supervisor)
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestCloseRules(t *testing.T) {
	f := newFixture(t)
	request := f.createRequest(t, validInput(), f.supervisor)

	// not yet completed
	_, err := f.service.Close(context.Background(), request.ID, nil, nil, f.manager)
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))

	_, err = f.service.UpdateStatus(context.Background(), request.ID, domain.RequestStatusCompleted, "", f.supervisor)
	require.NoError(t, err)

	// department manager is not in the closing set
	_, err = f.service.Close(context.Background(), request.ID, nil, nil, f.deptManager)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))

	satisfaction := 9
	_, err = f.service.Close(context.Background(), request.ID, nil, &satisfaction, f.supervisor)
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))

	notes := "replaced compressor"
	satisfaction = 5
	closed, err := f.service.Close(context.Background(), request.ID, &notes, &satisfaction, f.supervisor)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatusClosed, closed.Status)
	require.NotNil(t, closed.ClosedAt)
	assert.Equal(t, &notes, closed.FinalNotes)
	assert.Equal(t, &satisfaction, closed.CustomerSatisfaction)
}

func TestListScopesByRole(t *testing.T) {
	f := newFixture(t)

	haRequest := f.createRequest(t, validInput(), f.supervisor)
	solarInput := validInput()
	solarInput.IssueDescription = "solar panel cracked"
	f.createRequest(t, solarInput, f.manager)

	_, err := f.service.AssignTechnician(context.Background(), haRequest.ID, f.techHA.ID, f.supervisor)
	require.NoError(t, err)

	// manager-level sees everything
	result, err := f.service.List(context.Background(), ListInput{}, f.manager)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Total)

	// department manager sees only their department
	result, err = f.service.List(context.Background(), ListInput{}, f.deptManager)
	require.NoError(t, err)
	require.Equal(t, 1, result.Total)
	assert.Equal(t, "dept-ha", result.Requests[0].DepartmentID)

	// technician sees only their own work
	result, err = f.service.List(context.Background(), ListInput{}, f.techHA)
	require.NoError(t, err)
	require.Equal(t, 1, result.Total)
	assert.Equal(t, haRequest.ID, result.Requests[0].ID)

	result, err = f.service.List(context.Background(), ListInput{}, f.techSolar)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Total)
}

func TestGetByIDScope(t *testing.T) {
	f := newFixture(t)
	request := f.createRequest(t, validInput(), f.supervisor)

	// unassigned technician of the same department cannot see it
	_, err := f.service.GetByID(context.Background(), request.ID, f.techHA)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))

	_, err = f.service.AssignTechnician(context.Background(), request.ID, f.techHA.ID, f.supervisor)
	require.NoError(t, err)

	detail, err := f.service.GetByID(context.Background(), request.ID, f.techHA)
	require.NoError(t, err)
	assert.Equal(t, request.ID, detail.Request.ID)
	require.NotNil(t, detail.Customer)
	assert.Equal(t, f.customer.ID, detail.Customer.ID)
	require.NotNil(t, detail.Technician)
	assert.Equal(t, f.techHA.ID, detail.Technician.ID)
	assert.Len(t, detail.Activities, 2)
}

func TestListRefreshesOverdueFlags(t *testing.T) {
	f := newFixture(t)
	request := f.createRequest(t, validInput(), f.supervisor)

	// push the due date into the past
	stored := f.requests.requests[request.ID]
	stored.SLADueDate = testClock.Add(-time.Hour)

	result, err := f.service.List(context.Background(), ListInput{}, f.manager)
	require.NoError(t, err)
	require.Equal(t, 1, result.Total)
	assert.True(t, result.Requests[0].IsOverdue)
}

func TestOverdueFlagClearsWhenFinished(t *testing.T) {
	f := newFixture(t)
	request := f.createRequest(t, validInput(), f.supervisor)

	f.requests.requests[request.ID].SLADueDate = testClock.Add(-time.Hour)

	overdue := true
	result, err := f.service.List(context.Background(), ListInput{Overdue: &overdue}, f.manager)
	require.NoError(t, err)
	require.Equal(t, 1, result.Total)
	assert.True(t, f.requests.requests[request.ID].IsOverdue)

	_, err = f.service.UpdateStatus(context.Background(), request.ID, domain.RequestStatusCompleted, "", f.supervisor)
	require.NoError(t, err)

	// a finished request no longer counts toward SLA: the persisted flag
	// clears and the overdue filter stops matching it
	result, err = f.service.List(context.Background(), ListInput{Overdue: &overdue}, f.manager)
	require.NoError(t, err)
	assert.Zero(t, result.Total)
	assert.False(t, f.requests.requests[request.ID].IsOverdue)

	stored, err := f.requests.GetByID(context.Background(), request.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsOverdue)
}

func TestPreviewTruncatesOnRuneBoundary(t *testing.T) {
	long := strings.Repeat("مكيف الهواء لا يبرد ", 20)
	short := preview(long, 120)

	assert.True(t, utf8.ValidString(short))
	assert.Len(t, []rune(short), 120)
	assert.True(t, strings.HasSuffix(short, "..."))

	assert.Equal(t, "kept as is", preview("  kept as is  ", 120))
}

func TestFullLifecycle(t *testing.T) {
	f := newFixture(t)

	request := f.createRequest(t, validInput(), f.supervisor)

	_, err := f.service.AssignTechnician(context.Background(), request.ID, f.techHA.ID, f.supervisor)
	require.NoError(t, err)
	_, err = f.service.UpdateStatus(context.Background(), request.ID, domain.RequestStatusUnderInspection, "", f.supervisor)
	require.NoError(t, err)
	_, err = f.service.UpdateStatus(context.Background(), request.ID, domain.RequestStatusInRepair, "", f.supervisor)
	require.NoError(t, err)
	_, err = f.service.UpdateStatus(context.Background(), request.ID, domain.RequestStatusCompleted, "", f.supervisor)
	require.NoError(t, err)
	closed, err := f.service.Close(context.Background(), request.ID, nil, nil, f.manager)
	require.NoError(t, err)

	assert.Equal(t, domain.RequestStatusClosed, closed.Status)
	require.NotNil(t, closed.AssignedAt)
	require.NotNil(t, closed.StartedAt)
	require.NotNil(t, closed.CompletedAt)
	require.NotNil(t, closed.ClosedAt)

	// created + assignment + three status changes + close
	assert.Len(t, f.activities.byRequest(request.ID), 6)
	assert.Len(t, f.published, 6)
	assert.Equal(t, events.EventRequestClosed, f.published[len(f.published)-1].Type)

	// closed is terminal
	_, err = f.service.UpdateStatus(context.Background(), request.ID, domain.RequestStatusInRepair, "", f.manager)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
	_, err = f.service.AssignTechnician(context.Background(), request.ID, f.techSolar.ID, f.manager)
	require.Error(t, err)
}
