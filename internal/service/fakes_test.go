package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/aftersales-service/internal/domain"
	"github.com/spec-kit/aftersales-service/internal/repository"
)

// In-memory repository fakes. They mirror the SQL repositories closely
// enough for service-level tests: missing rows surface pgx.ErrNoRows and
// ids are minted on create.

type fakeRequestRepo struct {
	requests map[string]*domain.Request
	counters map[string]int
	seq      int
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{
		requests: map[string]*domain.Request{},
		counters: map[string]int{},
	}
}

func (f *fakeRequestRepo) Create(_ context.Context, request *domain.Request) error {
	f.seq++
	request.ID = fmt.Sprintf("req-%d", f.seq)
	request.CreatedAt = time.Now()
	request.UpdatedAt = request.CreatedAt
	clone := *request
	f.requests[request.ID] = &clone
	return nil
}

func (f *fakeRequestRepo) Update(_ context.Context, request *domain.Request) error {
	if _, ok := f.requests[request.ID]; !ok {
		return pgx.ErrNoRows
	}
	request.UpdatedAt = time.Now()
	clone := *request
	f.requests[request.ID] = &clone
	return nil
}

func (f *fakeRequestRepo) GetByID(_ context.Context, id string) (*domain.Request, error) {
	request, ok := f.requests[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *request
	return &clone, nil
}

func (f *fakeRequestRepo) GetByNumber(_ context.Context, number string) (*domain.Request, error) {
	for _, request := range f.requests {
		if request.RequestNumber == number {
			clone := *request
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeRequestRepo) ListWithFilter(_ context.Context, filter repository.RequestFilter) ([]domain.Request, error) {
	var result []domain.Request
	for _, request := range f.requests {
		if !matchesFilter(request, filter) {
			continue
		}
		result = append(result, *request)
	}
	return result, nil
}

func (f *fakeRequestRepo) CountWithFilter(ctx context.Context, filter repository.RequestFilter) (int, error) {
	matched, err := f.ListWithFilter(ctx, filter)
	if err != nil {
		return 0, err
	}
	return len(matched), nil
}

func (f *fakeRequestRepo) NextDailySequence(_ context.Context, day time.Time) (int, error) {
	key := day.Format("2006-01-02")
	f.counters[key]++
	return f.counters[key], nil
}

func (f *fakeRequestRepo) ListOverdueIDs(_ context.Context, now time.Time) ([]string, error) {
	var ids []string
	for id, request := range f.requests {
		overdue := request.SLADueDate.Before(now) && !request.Status.IsFinished()
		request.IsOverdue = overdue
		if overdue {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func matchesFilter(request *domain.Request, filter repository.RequestFilter) bool {
	if len(filter.Statuses) > 0 {
		found := false
		for _, status := range filter.Statuses {
			if request.Status == status {
				found = true
			}
		}
		if !found {
			return false
		}
	}
	if filter.DepartmentID != nil && request.DepartmentID != *filter.DepartmentID {
		return false
	}
	if filter.TechnicianID != nil &&
		(request.AssignedTechnicianID == nil || *request.AssignedTechnicianID != *filter.TechnicianID) {
		return false
	}
	if filter.VisibleToUserID != nil {
		assigned := request.AssignedTechnicianID != nil && *request.AssignedTechnicianID == *filter.VisibleToUserID
		if !assigned && request.ReceivedByID != *filter.VisibleToUserID {
			return false
		}
	}
	if filter.Overdue != nil && request.IsOverdue != *filter.Overdue {
		return false
	}
	return true
}

type fakeActivityRepo struct {
	activities []domain.RequestActivity
	seq        int
}

func (f *fakeActivityRepo) Create(_ context.Context, activity *domain.RequestActivity) error {
	f.seq++
	activity.ID = fmt.Sprintf("act-%d", f.seq)
	activity.CreatedAt = time.Now()
	f.activities = append(f.activities, *activity)
	return nil
}

func (f *fakeActivityRepo) ListByRequest(_ context.Context, requestID string) ([]domain.RequestActivity, error) {
	var result []domain.RequestActivity
	for i := len(f.activities) - 1; i >= 0; i-- {
		if f.activities[i].RequestID == requestID {
			result = append(result, f.activities[i])
		}
	}
	return result, nil
}

func (f *fakeActivityRepo) byRequest(requestID string) []domain.RequestActivity {
	var result []domain.RequestActivity
	for _, activity := range f.activities {
		if activity.RequestID == requestID {
			result = append(result, activity)
		}
	}
	return result
}

type fakeCostRepo struct {
	costs []domain.RequestCost
	seq   int
}

func (f *fakeCostRepo) Create(_ context.Context, cost *domain.RequestCost) error {
	f.seq++
	cost.ID = fmt.Sprintf("cost-%d", f.seq)
	cost.CreatedAt = time.Now()
	f.costs = append(f.costs, *cost)
	return nil
}

func (f *fakeCostRepo) ListByRequest(_ context.Context, requestID string) ([]domain.RequestCost, error) {
	var result []domain.RequestCost
	for _, cost := range f.costs {
		if cost.RequestID == requestID {
			result = append(result, cost)
		}
	}
	return result, nil
}

type fakeCustomerRepo struct {
	customers map[string]*domain.Customer
}

func (f *fakeCustomerRepo) Create(_ context.Context, customer *domain.Customer) error {
	customer.ID = fmt.Sprintf("cust-%d", len(f.customers)+1)
	f.customers[customer.ID] = customer
	return nil
}

func (f *fakeCustomerRepo) Update(_ context.Context, customer *domain.Customer) error {
	if _, ok := f.customers[customer.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.customers[customer.ID] = customer
	return nil
}

func (f *fakeCustomerRepo) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	customer, ok := f.customers[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return customer, nil
}

func (f *fakeCustomerRepo) List(_ context.Context, _ string, _, _ int) ([]domain.Customer, error) {
	var result []domain.Customer
	for _, customer := range f.customers {
		result = append(result, *customer)
	}
	return result, nil
}

type fakeProductRepo struct {
	products map[string]*domain.Product
}

func (f *fakeProductRepo) Create(_ context.Context, product *domain.Product) error {
	product.ID = fmt.Sprintf("prod-%d", len(f.products)+1)
	f.products[product.ID] = product
	return nil
}

func (f *fakeProductRepo) Update(_ context.Context, product *domain.Product) error {
	if _, ok := f.products[product.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.products[product.ID] = product
	return nil
}

func (f *fakeProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return product, nil
}

func (f *fakeProductRepo) List(_ context.Context, _ *string, _, _ int) ([]domain.Product, error) {
	var result []domain.Product
	for _, product := range f.products {
		result = append(result, *product)
	}
	return result, nil
}

type fakeDepartmentRepo struct {
	departments map[string]*domain.Department
}

func (f *fakeDepartmentRepo) Create(_ context.Context, dept *domain.Department) error {
	dept.ID = fmt.Sprintf("dept-%d", len(f.departments)+1)
	f.departments[dept.ID] = dept
	return nil
}

func (f *fakeDepartmentRepo) Update(_ context.Context, dept *domain.Department) error {
	if _, ok := f.departments[dept.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.departments[dept.ID] = dept
	return nil
}

func (f *fakeDepartmentRepo) GetByID(_ context.Context, id string) (*domain.Department, error) {
	dept, ok := f.departments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return dept, nil
}

func (f *fakeDepartmentRepo) GetByName(_ context.Context, name string) (*domain.Department, error) {
	for _, dept := range f.departments {
		if dept.Name == name {
			return dept, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeDepartmentRepo) ListActive(_ context.Context) ([]domain.Department, error) {
	var result []domain.Department
	for _, dept := range f.departments {
		if dept.IsActive {
			result = append(result, *dept)
		}
	}
	return result, nil
}

type fakeUserRepo struct {
	users map[string]*domain.User
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	user.ID = fmt.Sprintf("user-%d", len(f.users)+1)
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) List(_ context.Context, filter repository.UserFilter) ([]domain.User, error) {
	var result []domain.User
	for _, user := range f.users {
		if filter.Role != nil && user.Role != *filter.Role {
			continue
		}
		if len(filter.Roles) > 0 {
			found := false
			for _, role := range filter.Roles {
				if user.Role == role {
					found = true
				}
			}
			if !found {
				continue
			}
		}
		if filter.DepartmentID != nil &&
			(user.DepartmentID == nil || *user.DepartmentID != *filter.DepartmentID) {
			continue
		}
		if filter.Active != nil && user.Active != *filter.Active {
			continue
		}
		result = append(result, *user)
	}
	return result, nil
}

type fakeNotificationRepo struct {
	notifications []domain.Notification
	seq           int
}

func (f *fakeNotificationRepo) Create(_ context.Context, notification *domain.Notification) error {
	f.seq++
	notification.ID = fmt.Sprintf("notif-%d", f.seq)
	notification.CreatedAt = time.Now()
	f.notifications = append(f.notifications, *notification)
	return nil
}

func (f *fakeNotificationRepo) ListByUser(_ context.Context, userID string, unreadOnly bool, _, _ int) ([]domain.Notification, error) {
	var result []domain.Notification
	for _, notification := range f.notifications {
		if notification.UserID != userID {
			continue
		}
		if unreadOnly && notification.Read {
			continue
		}
		result = append(result, notification)
	}
	return result, nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, id, userID string) error {
	for i := range f.notifications {
		if f.notifications[i].ID == id && f.notifications[i].UserID == userID {
			f.notifications[i].Read = true
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeNotificationRepo) MarkAllRead(_ context.Context, userID string) (int64, error) {
	var count int64
	for i := range f.notifications {
		if f.notifications[i].UserID == userID && !f.notifications[i].Read {
			f.notifications[i].Read = true
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) CountUnread(_ context.Context, userID string) (int, error) {
	count := 0
	for _, notification := range f.notifications {
		if notification.UserID == userID && !notification.Read {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) forUser(userID string) []domain.Notification {
	var result []domain.Notification
	for _, notification := range f.notifications {
		if notification.UserID == userID {
			result = append(result, notification)
		}
	}
	return result
}
