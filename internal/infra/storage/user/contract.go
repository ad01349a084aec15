package user

import "github.com/m04kA/SMC-TrainingBooking/pkg/dbmetrics"

type DBExecutor = dbmetrics.DBExecutor
