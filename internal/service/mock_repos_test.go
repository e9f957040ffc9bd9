package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"jadwal-kuliah/internal/model"
	"jadwal-kuliah/internal/repository"
	pkgerrors "jadwal-kuliah/pkg/errors"
)

// ── Mock TimeSlotRepository ──

type mockTimeSlotRepo struct {
	slots map[string]*model.TimeSlot
	seq   int
	err   error // 非 nil 时所有读操作返回该错误
	inUse func(id string) bool
}

func newMockTimeSlotRepo() *mockTimeSlotRepo {
	return &mockTimeSlotRepo{slots: make(map[string]*model.TimeSlot)}
}

func (m *mockTimeSlotRepo) Create(_ context.Context, slot *model.TimeSlot) error {
	if slot.TimeSlotID == "" {
		m.seq++
		slot.TimeSlotID = fmt.Sprintf("ts-%03d", m.seq)
	}
	slot.CreatedAt = time.Now()
	slot.UpdatedAt = slot.CreatedAt
	m.slots[slot.TimeSlotID] = slot
	return nil
}

func (m *mockTimeSlotRepo) GetByID(_ context.Context, id string) (*model.TimeSlot, error) {
	if m.err != nil {
		return nil, m.err
	}
	if s, ok := m.slots[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimeSlotRepo) GetByIDs(_ context.Context, ids []string) ([]model.TimeSlot, error) {
	if m.err != nil {
		return nil, m.err
	}
	result := []model.TimeSlot{}
	for _, id := range ids {
		if s, ok := m.slots[id]; ok {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockTimeSlotRepo) List(_ context.Context, period model.Period) ([]model.TimeSlot, error) {
	if m.err != nil {
		return nil, m.err
	}
	result := []model.TimeSlot{}
	for _, s := range m.slots {
		if period != "" && s.Period != period {
			continue
		}
		result = append(result, *s)
	}
	// map 遍历无序，保持与数据库查询一致的顺序
	sort.Slice(result, func(i, j int) bool {
		if result[i].StartTime != result[j].StartTime {
			return result[i].StartTime < result[j].StartTime
		}
		return result[i].TimeSlotID < result[j].TimeSlotID
	})
	return result, nil
}

func (m *mockTimeSlotRepo) Exists(_ context.Context, period model.Period, daySpecific bool, start, end string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	for _, s := range m.slots {
		if s.Period == period && s.DaySpecific == daySpecific && s.StartTime == start && s.EndTime == end {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockTimeSlotRepo) Update(_ context.Context, slot *model.TimeSlot) error {
	cp := *slot
	m.slots[slot.TimeSlotID] = &cp
	return nil
}

func (m *mockTimeSlotRepo) Delete(_ context.Context, id string) error {
	delete(m.slots, id)
	return nil
}

func (m *mockTimeSlotRepo) DeleteUnreferenced(_ context.Context) (int64, error) {
	var n int64
	for id := range m.slots {
		if m.inUse != nil && m.inUse(id) {
			continue
		}
		delete(m.slots, id)
		n++
	}
	return n, nil
}

// ── Mock InstructorRepository ──

type mockInstructorRepo struct {
	instructors map[string]*model.Instructor
}

func newMockInstructorRepo() *mockInstructorRepo {
	return &mockInstructorRepo{instructors: make(map[string]*model.Instructor)}
}

func (m *mockInstructorRepo) Create(_ context.Context, instructor *model.Instructor) error {
	for _, i := range m.instructors {
		if i.Code == instructor.Code {
			return gorm.ErrDuplicatedKey
		}
	}
	if instructor.InstructorID == "" {
		instructor.InstructorID = "dosen-" + strings.ToLower(instructor.Code)
	}
	m.instructors[instructor.InstructorID] = instructor
	return nil
}

func (m *mockInstructorRepo) GetByID(_ context.Context, id string) (*model.Instructor, error) {
	if i, ok := m.instructors[id]; ok {
		cp := *i
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockInstructorRepo) GetByIDs(_ context.Context, ids []string) ([]model.Instructor, error) {
	result := []model.Instructor{}
	for _, id := range ids {
		if i, ok := m.instructors[id]; ok {
			result = append(result, *i)
		}
	}
	return result, nil
}

func (m *mockInstructorRepo) List(_ context.Context, keyword string) ([]model.Instructor, error) {
	result := []model.Instructor{}
	for _, i := range m.instructors {
		if keyword != "" && !strings.Contains(i.Name, keyword) && !strings.Contains(i.Code, keyword) {
			continue
		}
		result = append(result, *i)
	}
	sort.Slice(result, func(a, b int) bool { return result[a].Name < result[b].Name })
	return result, nil
}

func (m *mockInstructorRepo) Update(_ context.Context, instructor *model.Instructor) error {
	for id, i := range m.instructors {
		if id != instructor.InstructorID && i.Code == instructor.Code {
			return gorm.ErrDuplicatedKey
		}
	}
	cp := *instructor
	m.instructors[instructor.InstructorID] = &cp
	return nil
}

func (m *mockInstructorRepo) Delete(_ context.Context, id string) error {
	delete(m.instructors, id)
	return nil
}

func (m *mockInstructorRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.instructors)), nil
}

// ── Mock ClassroomRepository ──

type mockClassroomRepo struct {
	classrooms map[string]*model.Classroom
}

func newMockClassroomRepo() *mockClassroomRepo {
	return &mockClassroomRepo{classrooms: make(map[string]*model.Classroom)}
}

func (m *mockClassroomRepo) Create(_ context.Context, classroom *model.Classroom) error {
	if classroom.ClassroomID == "" {
		classroom.ClassroomID = "kelas-" + strings.ToLower(classroom.Name)
	}
	m.classrooms[classroom.ClassroomID] = classroom
	return nil
}

func (m *mockClassroomRepo) GetByID(_ context.Context, id string) (*model.Classroom, error) {
	if c, ok := m.classrooms[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockClassroomRepo) GetByIDs(_ context.Context, ids []string) ([]model.Classroom, error) {
	result := []model.Classroom{}
	for _, id := range ids {
		if c, ok := m.classrooms[id]; ok {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (m *mockClassroomRepo) List(_ context.Context, period model.Period) ([]model.Classroom, error) {
	result := []model.Classroom{}
	for _, c := range m.classrooms {
		if period != "" && c.Period != period {
			continue
		}
		result = append(result, *c)
	}
	sort.Slice(result, func(a, b int) bool { return result[a].Name < result[b].Name })
	return result, nil
}

func (m *mockClassroomRepo) Update(_ context.Context, classroom *model.Classroom) error {
	cp := *classroom
	m.classrooms[classroom.ClassroomID] = &cp
	return nil
}

func (m *mockClassroomRepo) Delete(_ context.Context, id string) error {
	delete(m.classrooms, id)
	return nil
}

func (m *mockClassroomRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.classrooms)), nil
}

// ── Mock ProgramRepository ──

type mockProgramRepo struct {
	programs map[string]*model.Program
}

func newMockProgramRepo() *mockProgramRepo {
	return &mockProgramRepo{programs: make(map[string]*model.Program)}
}

func (m *mockProgramRepo) Create(_ context.Context, program *model.Program) error {
	for _, p := range m.programs {
		if p.Name == program.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	if program.ProgramID == "" {
		program.ProgramID = "prodi-" + program.Name
	}
	m.programs[program.ProgramID] = program
	return nil
}

func (m *mockProgramRepo) GetByID(_ context.Context, id string) (*model.Program, error) {
	if p, ok := m.programs[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProgramRepo) List(_ context.Context) ([]model.Program, error) {
	result := []model.Program{}
	for _, p := range m.programs {
		result = append(result, *p)
	}
	sort.Slice(result, func(a, b int) bool { return result[a].Name < result[b].Name })
	return result, nil
}

func (m *mockProgramRepo) Update(_ context.Context, program *model.Program) error {
	cp := *program
	m.programs[program.ProgramID] = &cp
	return nil
}

func (m *mockProgramRepo) Delete(_ context.Context, id string) error {
	delete(m.programs, id)
	return nil
}

func (m *mockProgramRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.programs)), nil
}

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	courses map[string]*model.Course
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{courses: make(map[string]*model.Course)}
}

func (m *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	for _, c := range m.courses {
		if c.Code == course.Code {
			return gorm.ErrDuplicatedKey
		}
	}
	if course.CourseID == "" {
		course.CourseID = "mk-" + strings.ToLower(course.Code)
	}
	m.courses[course.CourseID] = course
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	if c, ok := m.courses[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) List(_ context.Context, filter repository.CourseFilter, offset, limit int) ([]model.Course, int64, error) {
	all := []model.Course{}
	for _, c := range m.courses {
		if filter.ProgramID != "" && c.ProgramID != filter.ProgramID {
			continue
		}
		if filter.Semester > 0 && c.Semester != filter.Semester {
			continue
		}
		all = append(all, *c)
	}
	sort.Slice(all, func(a, b int) bool { return all[a].Code < all[b].Code })
	total := int64(len(all))
	if offset >= len(all) {
		return []model.Course{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockCourseRepo) Update(_ context.Context, course *model.Course) error {
	cp := *course
	m.courses[course.CourseID] = &cp
	return nil
}

func (m *mockCourseRepo) Delete(_ context.Context, id string) error {
	delete(m.courses, id)
	return nil
}

func (m *mockCourseRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.courses)), nil
}

func (m *mockCourseRepo) CountByProgram(_ context.Context, programID string) (int64, error) {
	var n int64
	for _, c := range m.courses {
		if c.ProgramID == programID {
			n++
		}
	}
	return n, nil
}

// ── Mock ScheduleEntryRepository ──
// 与数据库一致地强制 (教师, 上课日, 时间段) 与 (教室, 上课日, 时间段) 唯一

type mockScheduleEntryRepo struct {
	entries     map[string]*model.ScheduleEntry
	seq         int
	instructors *mockInstructorRepo
	classrooms  *mockClassroomRepo
	courses     *mockCourseRepo
	slots       *mockTimeSlotRepo

	findErr        error // 冲突查询返回的错误
	createErr      error // BatchCreate 返回的错误（模拟存储故障 / 并发写入）
	batchCalls     int
	beforeCreateFn func() // BatchCreate 执行前的钩子（模拟检测与写入之间的并发写入）
}

func newMockScheduleEntryRepo(i *mockInstructorRepo, c *mockClassroomRepo, mk *mockCourseRepo, ts *mockTimeSlotRepo) *mockScheduleEntryRepo {
	return &mockScheduleEntryRepo{
		entries:     make(map[string]*model.ScheduleEntry),
		instructors: i,
		classrooms:  c,
		courses:     mk,
		slots:       ts,
	}
}

// put 直接写入一条记录（测试初始化用）
func (m *mockScheduleEntryRepo) put(e *model.ScheduleEntry) {
	if e.EntryID == "" {
		m.seq++
		e.EntryID = fmt.Sprintf("entry-%03d", m.seq)
	}
	if e.Version == 0 {
		e.Version = 1
	}
	m.entries[e.EntryID] = e
}

func (m *mockScheduleEntryRepo) withDetails(e *model.ScheduleEntry) model.ScheduleEntry {
	cp := *e
	if i, ok := m.instructors.instructors[e.InstructorID]; ok {
		v := *i
		cp.Instructor = &v
	}
	if c, ok := m.classrooms.classrooms[e.ClassroomID]; ok {
		v := *c
		cp.Classroom = &v
	}
	if mk, ok := m.courses.courses[e.CourseID]; ok {
		v := *mk
		cp.Course = &v
	}
	if ts, ok := m.slots.slots[e.TimeSlotID]; ok {
		v := *ts
		cp.TimeSlot = &v
	}
	return cp
}

func (m *mockScheduleEntryRepo) find(q repository.ClashQuery, match func(e *model.ScheduleEntry) bool) ([]model.ScheduleEntry, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	slotSet := make(map[string]bool, len(q.TimeSlotIDs))
	for _, id := range q.TimeSlotIDs {
		slotSet[id] = true
	}
	result := []model.ScheduleEntry{}
	for _, e := range m.entries {
		if e.Day != q.Day || !slotSet[e.TimeSlotID] {
			continue
		}
		if q.ExcludeID != "" && e.EntryID == q.ExcludeID {
			continue
		}
		if match(e) {
			result = append(result, m.withDetails(e))
		}
	}
	// 故意打乱为 ID 倒序，验证检测器自身保证输出顺序
	sort.Slice(result, func(i, j int) bool { return result[i].EntryID > result[j].EntryID })
	return result, nil
}

func (m *mockScheduleEntryRepo) FindInstructorClashes(_ context.Context, q repository.ClashQuery) ([]model.ScheduleEntry, error) {
	return m.find(q, func(e *model.ScheduleEntry) bool {
		return e.InstructorID == q.InstructorID && e.ClassroomID != q.ClassroomID
	})
}

func (m *mockScheduleEntryRepo) FindClassroomClashes(_ context.Context, q repository.ClashQuery) ([]model.ScheduleEntry, error) {
	return m.find(q, func(e *model.ScheduleEntry) bool {
		return e.ClassroomID == q.ClassroomID && e.InstructorID != q.InstructorID
	})
}

func (m *mockScheduleEntryRepo) FindExact(_ context.Context, q repository.ClashQuery) ([]model.ScheduleEntry, error) {
	return m.find(q, func(e *model.ScheduleEntry) bool {
		return e.ClassroomID == q.ClassroomID && e.InstructorID == q.InstructorID
	})
}

// violates 是否与既有记录（排除 skipID）违反唯一约束
func (m *mockScheduleEntryRepo) violates(e *model.ScheduleEntry, skipID string, extra []model.ScheduleEntry) bool {
	check := func(o *model.ScheduleEntry) bool {
		if o.Day != e.Day || o.TimeSlotID != e.TimeSlotID {
			return false
		}
		return o.InstructorID == e.InstructorID || o.ClassroomID == e.ClassroomID
	}
	for id, o := range m.entries {
		if id != skipID && check(o) {
			return true
		}
	}
	for i := range extra {
		if check(&extra[i]) {
			return true
		}
	}
	return false
}

func (m *mockScheduleEntryRepo) BatchCreate(_ context.Context, entries []model.ScheduleEntry) error {
	m.batchCalls++
	if m.beforeCreateFn != nil {
		m.beforeCreateFn()
	}
	if m.createErr != nil {
		return m.createErr
	}
	// 先整体校验再写入，保证全部成功或全部失败
	for i := range entries {
		if m.violates(&entries[i], "", entries[:i]) {
			return gorm.ErrDuplicatedKey
		}
	}
	now := time.Now()
	for i := range entries {
		m.seq++
		entries[i].EntryID = fmt.Sprintf("entry-%03d", m.seq)
		entries[i].CreatedAt = now
		entries[i].UpdatedAt = now
		cp := entries[i]
		m.entries[cp.EntryID] = &cp
	}
	return nil
}

func (m *mockScheduleEntryRepo) GetByID(_ context.Context, id string) (*model.ScheduleEntry, error) {
	if e, ok := m.entries[id]; ok {
		cp := m.withDetails(e)
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleEntryRepo) GetByIDs(_ context.Context, ids []string) ([]model.ScheduleEntry, error) {
	result := []model.ScheduleEntry{}
	for _, id := range ids {
		if e, ok := m.entries[id]; ok {
			result = append(result, m.withDetails(e))
		}
	}
	return result, nil
}

func (m *mockScheduleEntryRepo) List(_ context.Context, filter repository.EntryFilter, offset, limit int) ([]model.ScheduleEntry, int64, error) {
	all := []model.ScheduleEntry{}
	for _, e := range m.entries {
		if filter.Period != "" && e.Period != filter.Period {
			continue
		}
		if filter.Day != "" && e.Day != filter.Day {
			continue
		}
		if filter.InstructorID != "" && e.InstructorID != filter.InstructorID {
			continue
		}
		if filter.ClassroomID != "" && e.ClassroomID != filter.ClassroomID {
			continue
		}
		if filter.CourseID != "" && e.CourseID != filter.CourseID {
			continue
		}
		all = append(all, m.withDetails(e))
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Day.Order() != all[j].Day.Order() {
			return all[i].Day.Order() < all[j].Day.Order()
		}
		return slotStart(&all[i]) < slotStart(&all[j])
	})
	total := int64(len(all))
	if limit <= 0 {
		return all, total, nil
	}
	if offset >= len(all) {
		return []model.ScheduleEntry{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockScheduleEntryRepo) Update(_ context.Context, entry *model.ScheduleEntry) error {
	cur, ok := m.entries[entry.EntryID]
	if !ok || cur.Version != entry.Version {
		return pkgerrors.ErrOptimisticLock
	}
	if m.violates(entry, entry.EntryID, nil) {
		return gorm.ErrDuplicatedKey
	}
	cp := *entry
	cp.Instructor, cp.Classroom, cp.Course, cp.TimeSlot = nil, nil, nil, nil
	cp.Version = entry.Version + 1
	m.entries[entry.EntryID] = &cp
	entry.Version = cp.Version
	return nil
}

func (m *mockScheduleEntryRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.entries[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.entries, id)
	return nil
}

func (m *mockScheduleEntryRepo) CountByRef(_ context.Context, ref repository.EntryRef, id string) (int64, error) {
	var n int64
	for _, e := range m.entries {
		var v string
		switch ref {
		case repository.RefInstructor:
			v = e.InstructorID
		case repository.RefCourse:
			v = e.CourseID
		case repository.RefClassroom:
			v = e.ClassroomID
		case repository.RefTimeSlot:
			v = e.TimeSlotID
		}
		if v == id {
			n++
		}
	}
	return n, nil
}

func (m *mockScheduleEntryRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.entries)), nil
}

func (m *mockScheduleEntryRepo) CountByPeriod(_ context.Context) ([]repository.GroupCount, error) {
	counts := map[string]int64{}
	for _, e := range m.entries {
		counts[string(e.Period)]++
	}
	return toGroupCounts(counts), nil
}

func (m *mockScheduleEntryRepo) CountByDay(_ context.Context) ([]repository.GroupCount, error) {
	counts := map[string]int64{}
	for _, e := range m.entries {
		counts[string(e.Day)]++
	}
	return toGroupCounts(counts), nil
}

func (m *mockScheduleEntryRepo) TopInstructors(_ context.Context, limit int) ([]repository.RankedCount, error) {
	counts := map[string]int64{}
	for _, e := range m.entries {
		counts[e.InstructorID]++
	}
	rows := []repository.RankedCount{}
	for id, n := range counts {
		row := repository.RankedCount{ID: id, Count: n}
		if i, ok := m.instructors.instructors[id]; ok {
			row.Name, row.Code = i.Name, i.Code
		}
		rows = append(rows, row)
	}
	return topN(rows, limit), nil
}

func (m *mockScheduleEntryRepo) TopClassrooms(_ context.Context, limit int) ([]repository.RankedCount, error) {
	counts := map[string]int64{}
	for _, e := range m.entries {
		counts[e.ClassroomID]++
	}
	rows := []repository.RankedCount{}
	for id, n := range counts {
		row := repository.RankedCount{ID: id, Count: n}
		if c, ok := m.classrooms.classrooms[id]; ok {
			row.Name = c.Name
		}
		rows = append(rows, row)
	}
	return topN(rows, limit), nil
}

func toGroupCounts(counts map[string]int64) []repository.GroupCount {
	rows := make([]repository.GroupCount, 0, len(counts))
	for k, n := range counts {
		rows = append(rows, repository.GroupCount{Key: k, Count: n})
	}
	return rows
}

func topN(rows []repository.RankedCount, limit int) []repository.RankedCount {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Name < rows[j].Name
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

// ── 测试仓储聚合 ──

type testRepos struct {
	timeSlot   *mockTimeSlotRepo
	instructor *mockInstructorRepo
	classroom  *mockClassroomRepo
	program    *mockProgramRepo
	course     *mockCourseRepo
	entry      *mockScheduleEntryRepo
}

func newTestRepos() *testRepos {
	r := &testRepos{
		timeSlot:   newMockTimeSlotRepo(),
		instructor: newMockInstructorRepo(),
		classroom:  newMockClassroomRepo(),
		program:    newMockProgramRepo(),
		course:     newMockCourseRepo(),
	}
	r.entry = newMockScheduleEntryRepo(r.instructor, r.classroom, r.course, r.timeSlot)
	r.timeSlot.inUse = func(id string) bool {
		n, _ := r.entry.CountByRef(context.Background(), repository.RefTimeSlot, id)
		return n > 0
	}
	return r
}

func (r *testRepos) toRepository() *repository.Repository {
	return &repository.Repository{
		TimeSlot:      r.timeSlot,
		Instructor:    r.instructor,
		Classroom:     r.classroom,
		Program:       r.program,
		Course:        r.course,
		ScheduleEntry: r.entry,
	}
}
