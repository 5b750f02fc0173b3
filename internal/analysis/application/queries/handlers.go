package queries

import sharedApplication "github.com/Elangosridhar/Smarttask-analysis/internal/shared/application"

var (
	_ sharedApplication.QueryHandler[SuggestTasksQuery, *SuggestTasksResult] = (*SuggestTasksHandler)(nil)
	_ sharedApplication.QueryHandler[ListStrategiesQuery, []StrategyDTO]     = (*ListStrategiesHandler)(nil)
	_ sharedApplication.QueryHandler[ListRunsQuery, []RunDTO]                = (*ListRunsHandler)(nil)
	_ sharedApplication.QueryHandler[GetRunQuery, *RunDetailDTO]             = (*GetRunHandler)(nil)
)
