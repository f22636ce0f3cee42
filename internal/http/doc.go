// Package http exposes the attendance service as a JSON API.
//
// Routes, all resource routes under /api:
//   - GET /api/employees, POST /api/employees: list and register employees,
//     exchanging the employeeDTO payload defined in employee_handler.go.
//   - GET /api/employees/{employee_id}, DELETE /api/employees/{employee_id}:
//     fetch or delete (with attendance cascade) a single employee.
//   - GET /api/attendance?employee_id=&date=, POST /api/attendance: filter and
//     mark attendance, exchanging attendanceDTO from attendance_handler.go.
//   - GET /api/employees/{employee_id}/attendance?start_date=&end_date=: one
//     employee's records within an inclusive, optional date range.
//   - GET /api/employees/{employee_id}/attendance/summary: present and absent
//     day totals.
//   - GET /healthz and GET /metrics: probes and Prometheus exposition.
//
// Errors are written as {"detail","error_code","errors"}; see responder.go.
package http
