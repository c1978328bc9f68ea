package models

// Route identifiers known to the view registry.
const (
	RouteRoot             = "/"
	RouteAuthentication   = "/authentication-screen"
	RouteStudentDashboard = "/student-dashboard"
	RouteTeacherDashboard = "/teacher-dashboard"
	RouteTrails           = "/learning-trails-management"
	RouteJourney          = "/philosophy-journey-mode"
	RouteClasses          = "/class-management-interface"
	RouteNotFound         = "*"
)

// View names the page controller a route activates.
type View string

const (
	ViewAuthentication   View = "authentication"
	ViewStudentDashboard View = "student-dashboard"
	ViewTeacherDashboard View = "teacher-dashboard"
	ViewTrails           View = "learning-trails-management"
	ViewJourney          View = "philosophy-journey-mode"
	ViewClasses          View = "class-management-interface"
	ViewNotFound         View = "not-found"
)
