package mocks

//go:generate mockgen -destination=./mock_strategy.go -package=mocks github.com/rxtech-lab/argo-sweep/internal/strategy Strategy
//go:generate mockgen -destination=./mock_accountant.go -package=mocks github.com/rxtech-lab/argo-sweep/internal/backtest/portfolio Accountant
//go:generate mockgen -destination=./mock_cursor.go -package=mocks github.com/rxtech-lab/argo-sweep/internal/market Cursor
//go:generate mockgen -destination=./mock_evaluator.go -package=mocks github.com/rxtech-lab/argo-sweep/internal/backtest/engine Evaluator
//go:generate mockgen -destination=./mock_execution_loop.go -package=mocks github.com/rxtech-lab/argo-sweep/internal/backtest/engine ExecutionLoop
//go:generate mockgen -destination=./mock_gateway.go -package=mocks github.com/rxtech-lab/argo-sweep/internal/trading/broker Gateway
//go:generate mockgen -destination=./mock_notifier.go -package=mocks github.com/rxtech-lab/argo-sweep/internal/notifier Notifier
//go:generate mockgen -destination=./mock_live_transition.go -package=mocks github.com/rxtech-lab/argo-sweep/internal/trading/engine LiveTransition
//go:generate mockgen -destination=./mock_launcher.go -package=mocks github.com/rxtech-lab/argo-sweep/internal/sweep Launcher
