//go:generate mockgen -source=../weather_provider.go -destination=./mock_weather_provider.go -package=mocks
//go:generate mockgen -source=../logger.go           -destination=./mock_logger.go           -package=mocks
//go:generate mockgen -source=../runner.go           -destination=./mock_runner.go           -package=mocks

package mocks
