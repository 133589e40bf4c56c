package overview

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"opsdash/internal/entity"
	"opsdash/internal/gateway"
	ordersvc "opsdash/internal/gateway/orders"
	usersvc "opsdash/internal/gateway/users"
	"opsdash/internal/query"
	"opsdash/pkg/testutil"
)

type fakeStatsGateway struct {
	mu            sync.Mutex
	users         []entity.User
	orders        []entity.Order
	failUserStats bool
	listCalls     map[string]int
}

func (f *fakeStatsGateway) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		f.listCalls[r.URL.Path]++

		switch r.URL.Path {
		case "/api/users":
			writeJSON(w, http.StatusOK, f.users)
		case "/api/orders":
			writeJSON(w, http.StatusOK, f.orders)
		case "/api/users/statistics":
			if f.failUserStats {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = w.Write([]byte(`{"message":"user service unavailable"}`))
				return
			}
			writeJSON(w, http.StatusOK, entity.UserStatistics{
				TotalUsers: int64(len(f.users)), ActiveUsers: int64(len(f.users)),
			})
		case "/api/orders/statistics":
			writeJSON(w, http.StatusOK, entity.OrderStatistics{
				TotalOrders: int64(len(f.orders)), PendingOrders: int64(len(f.orders)),
			})
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"no route"}`))
		}
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type OverviewSuite struct {
	suite.Suite
	fake       *fakeStatsGateway
	cache      *query.Cache
	controller *Controller
}

func (s *OverviewSuite) SetupTest() {
	s.fake = &fakeStatsGateway{listCalls: map[string]int{}}
	for i := int64(1); i <= 7; i++ {
		s.fake.users = append(s.fake.users, testutil.NewUser(i))
		s.fake.orders = append(s.fake.orders, testutil.NewOrder(i, i))
	}

	srv := httptest.NewServer(s.fake.handler())
	s.T().Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	client := gateway.New(srv.URL+"/api", time.Second, gateway.WithLogger(logger))
	s.cache = query.New()
	s.controller = NewController(usersvc.New(client), ordersvc.New(client), s.cache, logger)
}

func TestOverviewSuite(t *testing.T) {
	suite.Run(t, new(OverviewSuite))
}

func (s *OverviewSuite) TestViewAssemblesTotalsAndRecents() {
	view := s.controller.View(context.Background())

	s.Empty(view.Error)
	s.Require().NotNil(view.UserStats)
	s.Require().NotNil(view.OrderStats)
	s.Equal(int64(7), view.UserStats.TotalUsers)
	s.Equal(int64(7), view.OrderStats.TotalOrders)

	s.Equal(7, view.TotalUsers)
	s.Equal(7, view.TotalOrders)
	s.Len(view.RecentUsers, 5, "recents are capped")
	s.Len(view.RecentOrders, 5)
}

func (s *OverviewSuite) TestOneFailingAggregateLeavesOtherIntact() {
	s.fake.mu.Lock()
	s.fake.failUserStats = true
	s.fake.mu.Unlock()

	view := s.controller.View(context.Background())

	s.Nil(view.UserStats)
	s.Require().NotNil(view.OrderStats, "order stats render despite the user stats failure")
	s.Equal(int64(7), view.OrderStats.TotalOrders)
	s.Equal("user service unavailable", view.Error)
}

func (s *OverviewSuite) TestRepeatedViewsServeFromCache() {
	s.controller.View(context.Background())
	s.controller.View(context.Background())
	s.controller.View(context.Background())

	s.fake.mu.Lock()
	defer s.fake.mu.Unlock()
	s.Equal(1, s.fake.listCalls["/api/users"])
	s.Equal(1, s.fake.listCalls["/api/orders"])
	s.Equal(1, s.fake.listCalls["/api/users/statistics"])
}

func (s *OverviewSuite) TestStartKeepsListsWarm() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.controller.Start(ctx, 20*time.Millisecond)

	// The subscription fetches immediately and then re-polls, so new rows
	// appear without any explicit invalidation.
	s.Eventually(func() bool {
		return s.controller.View(context.Background()).TotalUsers == 7
	}, time.Second, 10*time.Millisecond)

	s.fake.mu.Lock()
	s.fake.users = append(s.fake.users, testutil.NewUser(8))
	s.fake.mu.Unlock()

	s.Eventually(func() bool {
		return s.controller.View(context.Background()).TotalUsers == 8
	}, time.Second, 10*time.Millisecond)
}
