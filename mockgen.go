//go:build gomock || generate

package mvfst

//go:generate sh -c "go run go.uber.org/mock/mockgen -package mocks -destination internal/mocks/stats.go github.com/yhcchaos/mvfst-old/logging TransportStatsCallback"
