package application

// Metrics receives business events from the services.
type Metrics interface {
	EmployeeCreated()
	EmployeeDeleted()
	AttendanceMarked(present bool)
	OperationFailed(operation, kind string)
}

type noopMetrics struct{}

func (noopMetrics) EmployeeCreated()               {}
func (noopMetrics) EmployeeDeleted()               {}
func (noopMetrics) AttendanceMarked(bool)          {}
func (noopMetrics) OperationFailed(string, string) {}

func defaultMetrics(m Metrics) Metrics {
	if m != nil {
		return m
	}
	return noopMetrics{}
}
