package db

import "gorm.io/gorm"

type Repositories struct {
	Users          *UserRepository
	Tasks          *TaskRepository
	Categories     *CategoryRepository
	CalendarEvents *CalendarEventRepository
	Pomodoro       *PomodoroRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:          NewUserRepository(database),
		Tasks:          NewTaskRepository(database),
		Categories:     NewCategoryRepository(database),
		CalendarEvents: NewCalendarEventRepository(database),
		Pomodoro:       NewPomodoroRepository(database),
	}
}
