package service

import "github.com/noah-isme/socrates-echo-api/internal/models"

// RolePolicy captures everything that varies by role so callers select it once per
// session instead of branching on the role everywhere.
type RolePolicy interface {
	Role() models.Role
	ResolveNavigation() []models.NavigationItem
	ResolveQuickActions() []models.QuickAction
	NarrowLayout() models.LayoutMode
	LandingRoute() string
	PanelTitle() string
}

// StudentPolicy is the capability set of students.
type StudentPolicy struct{}

// TeacherPolicy is the capability set of teachers.
type TeacherPolicy struct{}

var (
	_ RolePolicy = StudentPolicy{}
	_ RolePolicy = TeacherPolicy{}
)

// PolicyFor returns the policy bound to role. Unknown roles have no policy.
func PolicyFor(role models.Role) (RolePolicy, bool) {
	switch role {
	case models.RoleStudent:
		return StudentPolicy{}, true
	case models.RoleTeacher:
		return TeacherPolicy{}, true
	default:
		return nil, false
	}
}

func (StudentPolicy) Role() models.Role { return models.RoleStudent }

func (StudentPolicy) ResolveNavigation() []models.NavigationItem {
	return []models.NavigationItem{
		{Route: models.RouteStudentDashboard, Label: "Dashboard", Icon: "Home", Description: "Visão geral do progresso"},
		{Route: models.RouteJourney, Label: "Jornada", Icon: "Compass", Description: "Modo de aprendizado interativo"},
		{Route: models.RouteTrails, Label: "Trilhas", Icon: "Map", Description: "Gerenciar trilhas de aprendizado"},
	}
}

func (StudentPolicy) ResolveQuickActions() []models.QuickAction {
	return []models.QuickAction{
		{ID: "join-class", Title: "Entrar em Turma", Description: "Use o código de 6 dígitos", Icon: "Users"},
		{ID: "browse-topics", Title: "Explorar Tópicos", Description: "Descubra novos conceitos filosóficos e pensadores", Icon: "Search", Route: models.RouteTrails},
		{ID: "conversations", Title: "Conversas Recentes", Description: "Continue seus diálogos socráticos", Icon: "MessageCircle", Route: models.RouteJourney},
	}
}

func (StudentPolicy) NarrowLayout() models.LayoutMode { return models.LayoutBottomBar }

func (StudentPolicy) LandingRoute() string { return models.RouteStudentDashboard }

func (StudentPolicy) PanelTitle() string { return "Painel do Estudante" }

func (TeacherPolicy) Role() models.Role { return models.RoleTeacher }

func (TeacherPolicy) ResolveNavigation() []models.NavigationItem {
	return []models.NavigationItem{
		{Route: models.RouteTeacherDashboard, Label: "Dashboard", Icon: "BarChart3", Description: "Visão geral das turmas"},
		{Route: models.RouteClasses, Label: "Turmas", Icon: "Users", Description: "Gerenciar turmas e alunos"},
		{Route: models.RouteTrails, Label: "Trilhas", Icon: "BookOpen", Description: "Criar e editar trilhas"},
	}
}

func (TeacherPolicy) ResolveQuickActions() []models.QuickAction {
	return []models.QuickAction{
		{ID: "create_class", Title: "Criar Nova Turma", Description: "Configure uma nova turma com trilhas personalizadas", Icon: "Plus", Route: models.RouteClasses},
		{ID: "invite_students", Title: "Convidar Estudantes", Description: "Gere códigos de convite para novos alunos", Icon: "UserPlus"},
		{ID: "create_trail", Title: "Nova Trilha", Description: "Crie trilhas de aprendizado personalizadas", Icon: "Map", Route: models.RouteTrails},
		{ID: "view_reports", Title: "Relatórios", Description: "Analise o desempenho das suas turmas", Icon: "BarChart3", Route: models.RouteTeacherDashboard},
	}
}

func (TeacherPolicy) NarrowLayout() models.LayoutMode { return models.LayoutAccordion }

func (TeacherPolicy) LandingRoute() string { return models.RouteTeacherDashboard }

func (TeacherPolicy) PanelTitle() string { return "Painel do Professor" }
