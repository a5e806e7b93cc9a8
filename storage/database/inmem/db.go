// Package inmemdb implements the domain repositories on process-local maps;
// a drop-in for tests and local hacking, not a real store.
package inmemdb

import (
	"sync"

	"github.com/trezcool/shuleni/core/attendance"
	"github.com/trezcool/shuleni/core/gradebook"
	"github.com/trezcool/shuleni/core/school"
	"github.com/trezcool/shuleni/core/user"
)

type DB struct {
	mutex sync.RWMutex

	users       map[string]*user.User
	programs    map[string]*school.Program
	classes     map[string]*school.Class
	calendars   map[string]*school.CalendarLink
	teachers    map[string]*school.Teacher
	activities  map[string]*gradebook.Activity
	submissions map[string]*gradebook.Submission
	records     map[string]*attendance.Record
}

func Open() *DB {
	return &DB{
		users:       make(map[string]*user.User),
		programs:    make(map[string]*school.Program),
		classes:     make(map[string]*school.Class),
		calendars:   make(map[string]*school.CalendarLink),
		teachers:    make(map[string]*school.Teacher),
		activities:  make(map[string]*gradebook.Activity),
		submissions: make(map[string]*gradebook.Submission),
		records:     make(map[string]*attendance.Record),
	}
}

// Reset drops all rows; test helper.
func (db *DB) Reset() {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	db.users = make(map[string]*user.User)
	db.programs = make(map[string]*school.Program)
	db.classes = make(map[string]*school.Class)
	db.calendars = make(map[string]*school.CalendarLink)
	db.teachers = make(map[string]*school.Teacher)
	db.activities = make(map[string]*gradebook.Activity)
	db.submissions = make(map[string]*gradebook.Submission)
	db.records = make(map[string]*attendance.Record)
}
