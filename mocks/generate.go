package mocks

//go:generate mockgen -destination=./mock_provider.go -package=mocks github.com/rxtech-lab/argo-ma/pkg/marketdata/provider Provider,UniverseSource,HistorySizer
//go:generate mockgen -destination=./mock_reporter.go -package=mocks github.com/rxtech-lab/argo-ma/internal/report Reporter
//go:generate mockgen -destination=./mock_strategy.go -package=mocks github.com/rxtech-lab/argo-ma/internal/strategy Strategy
