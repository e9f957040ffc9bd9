package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"jadwal-kuliah/internal/dto"
	"jadwal-kuliah/internal/model"
)

// ── 测试夹具 ──
// 教师 dosen-1 / dosen-2；PAGI 教室 kelas-10 / kelas-20 / kelas-30，SORE 教室 kelas-s；
// PAGI 时间段 A/B/C，SIANG 时间段 siang-1，SORE 工作日 sore-wd，SORE 周六 sore-sat

func setupTestScheduleEntryService() (ScheduleEntryService, *testRepos) {
	repos := newTestRepos()
	ctx := context.Background()

	for _, i := range []*model.Instructor{
		{InstructorID: "dosen-1", Name: "Budi Santoso", Code: "BS"},
		{InstructorID: "dosen-2", Name: "Siti Aminah", Code: "SA"},
	} {
		_ = repos.instructor.Create(ctx, i)
	}
	for _, c := range []*model.Classroom{
		{ClassroomID: "kelas-10", Name: "R10", Period: model.PeriodPagi},
		{ClassroomID: "kelas-20", Name: "R20", Period: model.PeriodPagi},
		{ClassroomID: "kelas-30", Name: "R30", Period: model.PeriodPagi},
		{ClassroomID: "kelas-s", Name: "RS1", Period: model.PeriodSore},
	} {
		_ = repos.classroom.Create(ctx, c)
	}
	_ = repos.course.Create(ctx, &model.Course{CourseID: "mk-1", Name: "Algoritma", Code: "IF101", Credits: 3, Semester: 1})
	for _, s := range []*model.TimeSlot{
		{TimeSlotID: "A", DisplayText: "07.00-07.50", Period: model.PeriodPagi, StartTime: "07:00", EndTime: "07:50"},
		{TimeSlotID: "B", DisplayText: "07.50-08.40", Period: model.PeriodPagi, StartTime: "07:50", EndTime: "08:40"},
		{TimeSlotID: "C", DisplayText: "08.40-09.30", Period: model.PeriodPagi, StartTime: "08:40", EndTime: "09:30"},
		{TimeSlotID: "siang-1", DisplayText: "12.50-13.30", Period: model.PeriodSiang, StartTime: "12:50", EndTime: "13:30"},
		{TimeSlotID: "sore-wd", DisplayText: "16.30-19.10", Period: model.PeriodSore, StartTime: "16:30", EndTime: "19:10"},
		{TimeSlotID: "sore-sat", DisplayText: "07.00-07.40", Period: model.PeriodSore, DaySpecific: true, StartTime: "07:00", EndTime: "07:40"},
	} {
		_ = repos.timeSlot.Create(ctx, s)
	}

	repo := repos.toRepository()
	logger := zap.NewNop()
	svc := NewScheduleEntryService(repo, NewConflictDetector(repo, logger), NewStatsCache(time.Minute), 3, logger)
	return svc, repos
}

func seedEntry(repos *testRepos, instructorID, classroomID string, day model.Day, slotID string) *model.ScheduleEntry {
	e := &model.ScheduleEntry{
		InstructorID: instructorID,
		CourseID:     "mk-1",
		ClassroomID:  classroomID,
		Day:          day,
		TimeSlotID:   slotID,
		Period:       model.PeriodPagi,
	}
	repos.entry.put(e)
	return e
}

func checkReq(instructorID, classroomID string, slots ...string) *dto.CheckConflictRequest {
	return &dto.CheckConflictRequest{
		InstructorID: instructorID,
		ClassroomID:  classroomID,
		Day:          "SENIN",
		Period:       "PAGI",
		TimeSlotIDs:  slots,
	}
}

func batchReq(instructorID, classroomID string, slots ...string) *dto.CreateBatchRequest {
	return &dto.CreateBatchRequest{
		InstructorID: instructorID,
		CourseID:     "mk-1",
		ClassroomID:  classroomID,
		Day:          "SENIN",
		Period:       "PAGI",
		TimeSlotIDs:  slots,
	}
}

// ────────────────────── CheckConflict ──────────────────────

func TestCheckConflict_InstructorCollision(t *testing.T) {
	svc, repos := setupTestScheduleEntryService()
	existing := seedEntry(repos, "dosen-1", "kelas-10", model.DaySenin, "A")

	resp, err := svc.CheckConflict(context.Background(), checkReq("dosen-1", "kelas-20", "A"))
	if err != nil {
		t.Fatalf("CheckConflict 应成功: %v", err)
	}
	if !resp.HasConflict || len(resp.Conflicts) != 1 {
		t.Fatalf("期望恰好 1 处冲突，实际 %d", len(resp.Conflicts))
	}
	c := resp.Conflicts[0]
	if c.Type != dto.ConflictTypeInstructor {
		t.Errorf("期望冲突类型 instructor，实际 %s", c.Type)
	}
	if c.ClassroomID != "kelas-10" || c.ClassroomName != "R10" {
		t.Errorf("期望指向教室 kelas-10/R10，实际 %s/%s", c.ClassroomID, c.ClassroomName)
	}
	if c.EntryID != existing.EntryID {
		t.Errorf("期望 EntryID=%s，实际=%s", existing.EntryID, c.EntryID)
	}
	if c.TimeSlotText != "07.00-07.50" || c.CourseCode != "IF101" {
		t.Errorf("冲突明细缺少时间段或课程信息: %+v", c)
	}

	// 实体：请求方教室 + 冲突教室
	if len(resp.Entities.Classrooms) != 2 {
		t.Errorf("期望返回 2 个教室，实际 %d", len(resp.Entities.Classrooms))
	}
	if len(resp.Entities.Instructors) != 1 || resp.Entities.Instructors[0].ID != "dosen-1" {
		t.Errorf("期望返回请求教师 dosen-1，实际 %+v", resp.Entities.Instructors)
	}
	if len(resp.Entities.TimeSlots) != 1 {
		t.Errorf("期望返回 1 个时间段，实际 %d", len(resp.Entities.TimeSlots))
	}
}

func TestCheckConflict_ClassroomCollision(t *testing.T) {
	svc, repos := setupTestScheduleEntryService()
	seedEntry(repos, "dosen-1", "kelas-10", model.DaySenin, "A")

	resp, err := svc.CheckConflict(context.Background(), checkReq("dosen-2", "kelas-10", "A"))
	if err != nil {
		t.Fatalf("CheckConflict 应成功: %v", err)
	}
	if len(resp.Conflicts) != 1 {
		t.Fatalf("期望恰好 1 处冲突，实际 %d", len(resp.Conflicts))
	}
	c := resp.Conflicts[0]
	if c.Type != dto.ConflictTypeClassroom {
		t.Errorf("期望冲突类型 classroom，实际 %s", c.Type)
	}
	if c.InstructorID != "dosen-1" || c.InstructorCode != "BS" {
		t.Errorf("期望指向教师 dosen-1/BS，实际 %s/%s", c.InstructorID, c.InstructorCode)
	}
	if len(resp.Entities.Instructors) != 2 {
		t.Errorf("期望返回 2 个教师，实际 %d", len(resp.Entities.Instructors))
	}
}

func TestCheckConflict_NoSelfConflict(t *testing.T) {
	svc, repos := setupTestScheduleEntryService()
	seedEntry(repos, "dosen-1", "kelas-10", model.DaySenin, "A")

	resp, err := svc.CheckConflict(context.Background(), checkReq("dosen-1", "kelas-10", "A"))
	if err != nil {
		t.Fatalf("CheckConflict 应成功: %v", err)
	}
	if resp.HasConflict || len(resp.Conflicts) != 0 {
		t.Fatalf("相同的教师/教室/时间段不应报告冲突，实际 %d", len(resp.Conflicts))
	}
	if resp.Conflicts == nil {
		t.Error("无冲突时应返回空切片而非 nil")
	}
	if len(resp.Entities.Instructors) != 0 || len(resp.Entities.Classrooms) != 0 {
		t.Error("无冲突时不应返回教师与教室实体")
	}
	if len(resp.Entities.TimeSlots) != 1 {
		t.Errorf("时间段实体应总是返回，实际 %d", len(resp.Entities.TimeSlots))
	}
}

func TestCheckConflict_OtherDayIsFree(t *testing.T) {
	svc, repos := setupTestScheduleEntryService()
	seedEntry(repos, "dosen-1", "kelas-10", model.DaySelasa, "A")

	resp, err := svc.CheckConflict(context.Background(), checkReq("dosen-1", "kelas-20", "A"))
	if err != nil {
		t.Fatalf("CheckConflict 应成功: %v", err)
	}
	if resp.HasConflict {
		t.Error("不同上课日不应冲突")
	}
}

func TestCheckConflict_DeterministicOrderAndIdempotent(t *testing.T) {
	svc, repos := setupTestScheduleEntryService()
	b := seedEntry(repos, "dosen-1", "kelas-20", model.DaySenin, "B")  // B 教师冲突
	a2 := seedEntry(repos, "dosen-2", "kelas-10", model.DaySenin, "A") // A 教室冲突
	a1 := seedEntry(repos, "dosen-1", "kelas-30", model.DaySenin, "A") // A 教师冲突

	req := checkReq("dosen-1", "kelas-10", "B", "A")
	first, err := svc.CheckConflict(context.Background(), req)
	if err != nil {
		t.Fatalf("CheckConflict 应成功: %v", err)
	}

	want := []struct {
		entryID string
		kind    string
	}{
		{a1.EntryID, dto.ConflictTypeInstructor},
		{a2.EntryID, dto.ConflictTypeClassroom},
		{b.EntryID, dto.ConflictTypeInstructor},
	}
	if len(first.Conflicts) != len(want) {
		t.Fatalf("期望 %d 处冲突，实际 %d", len(want), len(first.Conflicts))
	}
	for i, w := range want {
		got := first.Conflicts[i]
		if got.EntryID != w.entryID || got.Type != w.kind {
			t.Errorf("第 %d 项期望 %s/%s，实际 %s/%s", i, w.entryID, w.kind, got.EntryID, got.Type)
		}
	}

	if len(first.Entities.TimeSlots) != 2 || first.Entities.TimeSlots[0].ID != "A" {
		t.Errorf("时间段实体应按开始时间排序: %+v", first.Entities.TimeSlots)
	}

	second, err := svc.CheckConflict(context.Background(), req)
	if err != nil {
		t.Fatalf("第二次 CheckConflict 应成功: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("相同输入两次检测结果应完全一致")
	}
}

func TestCheckConflict_ExcludeEntry(t *testing.T) {
	svc, repos := setupTestScheduleEntryService()
	self := seedEntry(repos, "dosen-1", "kelas-10", model.DaySenin, "A")

	req := checkReq("dosen-2", "kelas-10", "A")
	req.ExcludeEntryID = self.EntryID

	resp, err := svc.CheckConflict(context.Background(), req)
	if err != nil {
		t.Fatalf("CheckConflict 应成功: %v", err)
	}
	if resp.HasConflict {
		t.Errorf("排除的记录不应报告为冲突: %+v", resp.Conflicts)
	}
}

func TestCheckConflict_ValidationBeforeStoreAccess(t *testing.T) {
	svc, repos := setupTestScheduleEntryService()
	// 任何存储访问都会失败，校验错误必须先于存储访问返回
	repos.entry.findErr = errors.New("store down")
	repos.timeSlot.err = errors.New("store down")

	tooMany := checkReq("dosen-1", "kelas-10", "A", "B", "C", "D")
	tests := []struct {
		name   string
		mutate func(r *dto.CheckConflictRequest)
		want   error
	}{
		{"无效时段", func(r *dto.CheckConflictRequest) { r.Period = "MALAM" }, ErrInvalidPeriod},
		{"无效上课日", func(r *dto.CheckConflictRequest) { r.Day = "MINGGU" }, ErrInvalidDay},
		{"PAGI 周六", func(r *dto.CheckConflictRequest) { r.Day = "SABTU" }, ErrDayNotInPeriod},
		{"空时间段", func(r *dto.CheckConflictRequest) { r.TimeSlotIDs = nil }, ErrEmptyTimeSlots},
		{"重复时间段", func(r *dto.CheckConflictRequest) { r.TimeSlotIDs = []string{"A", "A"} }, ErrDuplicateTimeSlotIDs},
		{"超过上限", func(r *dto.CheckConflictRequest) { r.TimeSlotIDs = tooMany.TimeSlotIDs }, ErrTooManyTimeSlots},
		{"缺少教师", func(r *dto.CheckConflictRequest) { r.InstructorID = "" }, ErrMissingReference},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := checkReq("dosen-1", "kelas-10", "A")
			tt.mutate(req)
			_, err := svc.CheckConflict(context.Background(), req)
			if !errors.Is(err, tt.want) {
				t.Errorf("期望 %v，实际 %v", tt.want, err)
			}
		})
	}
}

func TestUpdateEntry_ValidationBeforeLookup(t *testing.T) {
	svc, _ := setupTestScheduleEntryService()

	// 记录不存在，但请求本身无效时应先返回校验错误
	tests := []struct {
		name   string
		mutate func(r *dto.UpdateEntryRequest)
		want   error
	}{
		{"无效时段", func(r *dto.UpdateEntryRequest) { r.Period = "MALAM" }, ErrInvalidPeriod},
		{"无效上课日", func(r *dto.UpdateEntryRequest) { r.Day = "MINGGU" }, ErrInvalidDay},
		{"PAGI 周六", func(r *dto.UpdateEntryRequest) { r.Day = "SABTU" }, ErrDayNotInPeriod},
		{"缺少课程", func(r *dto.UpdateEntryRequest) { r.CourseID = "" }, ErrMissingReference},
		{"缺少时间段", func(r *dto.UpdateEntryRequest) { r.TimeSlotID = "" }, ErrEmptyTimeSlots},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &dto.UpdateEntryRequest{
				InstructorID: "dosen-1",
				CourseID:     "mk-1",
				ClassroomID:  "kelas-10",
				Day:          "SENIN",
				Period:       "PAGI",
				TimeSlotID:   "A",
				Version:      1,
			}
			tt.mutate(req)
			_, err := svc.UpdateEntry(context.Background(), "missing", req, "admin-1")
			if !errors.Is(err, tt.want) {
				t.Errorf("期望 %v，实际 %v", tt.want, err)
			}
		})
	}

	// 请求有效时才报告记录不存在
	_, err := svc.UpdateEntry(context.Background(), "missing", &dto.UpdateEntryRequest{
		InstructorID: "dosen-1", CourseID: "mk-1", ClassroomID: "kelas-10",
		Day: "SENIN", Period: "PAGI", TimeSlotID: "A", Version: 1,
	}, "admin-1")
	if !errors.Is(err, ErrScheduleEntryNotFound) {
		t.Errorf("期望 ErrScheduleEntryNotFound，实际 %v", err)
	}
}

func TestCheckConflict_StoreFailureIsNotClean(t *testing.T) {
	svc, repos := setupTestScheduleEntryService()
	storeErr := errors.New("connection reset")
	repos.entry.findErr = storeErr

	resp, err := svc.CheckConflict(context.Background(), checkReq("dosen-1", "kelas-10", "A"))
	if err == nil {
		t.Fatal("存储故障时不应返回无冲突")
	}
	if resp != nil {
		t.Error("存储故障时不应返回结果")
	}
	if !errors.Is(err, storeErr) {
		t.Errorf("期望包装原始错误，实际 %v", err)
	}
}

// ────────────────────── CreateBatch ──────────────────────

func TestCreateBatch_Success(t *testing.T) {
	svc, repos := setupTestScheduleEntryService()

	resp, err := svc.CreateBatch(context.Background(), batchReq("dosen-1", "kelas-10", "A", "B", "C"), "admin-1")
	if err != nil {
		t.Fatalf("CreateBatch 应成功: %v", err)
	}
	if resp.CreatedCount != 3 || len(resp.Entries) != 3 {
		t.Fatalf("期望创建 3 条，实际 %d", resp.CreatedCount)
	}
	for _, e := range resp.Entries {
		if e.ID == "" {
			t.Error("创建后的记录应有 ID")
		}
		if e.TimeSlot == nil || e.TimeSlot.DisplayText == "" {
			t.Error("响应应携带时间段信息")
		}
		if e.Instructor.Code != "BS" || e.Classroom.Name != "R10" || e.Course.Code != "IF101" {
			t.Errorf("响应关联信息不完整: %+v", e)
		}
		if e.Version != 1 {
			t.Errorf("期望 Version=1，实际=%d", e.Version)
		}
	}
	if len(repos.entry.entries) != 3 {
		t.Errorf("存储中期望 3 条，实际 %d", len(repos.entry.entries))
	}
	for _, e := range repos.entry.entries {
		if e.CreatedBy == nil || *e.CreatedBy != "admin-1" {
			t.Error("CreatedBy 应为调用者")
		}
	}
}

func TestCreateBatch_AtomicOnDetectedConflict(t *testing.T) {
	svc, repos := setupTestScheduleEntryService()
	seedEntry(repos, "dosen-2", "kelas-10", model.DaySenin, "B")

	_, err := svc.CreateBatch(context.Background(), batchReq("dosen-1", "kelas-10", "A", "B", "C"), "admin-1")

	var conflictErr *ConflictError
	if !errors.As(err, &conflictErr) {
		t.Fatalf("期望 *ConflictError，实际 %v", err)
	}
	if !errors.Is(err, ErrScheduleConflict) {
		t.Error("ConflictError 应等价于 ErrScheduleConflict")
	}
	if len(conflictErr.Conflicts) != 1 || conflictErr.Conflicts[0].TimeSlotID != "B" {
		t.Errorf("期望时间段 B 上 1 处冲突: %+v", conflictErr.Conflicts)
	}
	if len(repos.entry.entries) != 1 {
		t.Errorf("冲突时不应写入任何记录，存储中实际 %d 条", len(repos.entry.entries))
	}
	if repos.entry.batchCalls != 0 {
		t.Error("检测到冲突后不应调用写入")
	}
}

func TestCreateBatch_ConcurrentWriteSurfacesGenericConflict(t *testing.T) {
	svc, repos := setupTestScheduleEntryService()
	// 检测通过之后、写入之前另一请求占用了教室
	repos.entry.beforeCreateFn = func() {
		seedEntry(repos, "dosen-2", "kelas-10", model.DaySenin, "B")
	}

	_, err := svc.CreateBatch(context.Background(), batchReq("dosen-1", "kelas-10", "A", "B"), "admin-1")
	if !errors.Is(err, ErrScheduleConflict) {
		t.Fatalf("期望 ErrScheduleConflict，实际 %v", err)
	}
	var conflictErr *ConflictError
	if errors.As(err, &conflictErr) {
		t.Error("并发写入冲突不应携带冲突明细")
	}
	if len(repos.entry.entries) != 1 {
		t.Errorf("批量写入应整体回滚，存储中实际 %d 条", len(repos.entry.entries))
	}
}

func TestCreateBatch_DuplicateEntry(t *testing.T) {
	svc, repos := setupTestScheduleEntryService()
	seedEntry(repos, "dosen-1", "kelas-10", model.DaySenin, "A")

	_, err := svc.CreateBatch(context.Background(), batchReq("dosen-1", "kelas-10", "A"), "admin-1")
	if !errors.Is(err, ErrDuplicateEntry) {
		t.Fatalf("期望 ErrDuplicateEntry，实际 %v", err)
	}
	if repos.entry.batchCalls != 0 {
		t.Error("重复提交不应调用写入")
	}
}

func TestCreateBatch_CatalogChecks(t *testing.T) {
	tests := []struct {
		name string
		req  *dto.CreateBatchRequest
		want error
	}{
		{"教师不存在", batchReq("dosen-x", "kelas-10", "A"), ErrInstructorNotFound},
		{"课程不存在", func() *dto.CreateBatchRequest {
			r := batchReq("dosen-1", "kelas-10", "A")
			r.CourseID = "mk-x"
			return r
		}(), ErrCourseNotFound},
		{"教室不存在", batchReq("dosen-1", "kelas-x", "A"), ErrClassroomNotFound},
		{"时间段不存在", batchReq("dosen-1", "kelas-10", "A", "Z"), ErrTimeSlotNotFound},
		{"教室时段不符", func() *dto.CreateBatchRequest {
			r := batchReq("dosen-1", "kelas-10", "siang-1")
			r.Period = "SIANG"
			return r
		}(), ErrPeriodMismatch},
		{"时间段属于其他时段", func() *dto.CreateBatchRequest {
			r := batchReq("dosen-1", "kelas-s", "A")
			r.Period = "SORE"
			return r
		}(), ErrTimeSlotUnavailable},
		{"工作日选择周六专用时间段", func() *dto.CreateBatchRequest {
			r := batchReq("dosen-1", "kelas-s", "sore-sat")
			r.Period = "SORE"
			return r
		}(), ErrTimeSlotUnavailable},
		{"缺少课程", func() *dto.CreateBatchRequest {
			r := batchReq("dosen-1", "kelas-10", "A")
			r.CourseID = ""
			return r
		}(), ErrMissingReference},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repos := setupTestScheduleEntryService()
			_, err := svc.CreateBatch(context.Background(), tt.req, "admin-1")
			if !errors.Is(err, tt.want) {
				t.Errorf("期望 %v，实际 %v", tt.want, err)
			}
			if len(repos.entry.entries) != 0 {
				t.Error("校验失败不应写入")
			}
		})
	}
}

func TestCreateBatch_SaturdayEvening(t *testing.T) {
	svc, _ := setupTestScheduleEntryService()
	req := batchReq("dosen-1", "kelas-s", "sore-sat")
	req.Period = "SORE"
	req.Day = "SABTU"

	resp, err := svc.CreateBatch(context.Background(), req, "admin-1")
	if err != nil {
		t.Fatalf("SORE 周六排课应成功: %v", err)
	}
	if resp.Entries[0].Day != "SABTU" || resp.Entries[0].Period != "SORE" {
		t.Errorf("期望 SABTU/SORE，实际 %s/%s", resp.Entries[0].Day, resp.Entries[0].Period)
	}
}

func TestCreateBatch_WriteErrors(t *testing.T) {
	tests := []struct {
		name      string
		createErr error
		want      error
	}{
		{"外键失效", gorm.ErrForeignKeyViolated, ErrReferenceChanged},
		{"唯一约束", gorm.ErrDuplicatedKey, ErrScheduleConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repos := setupTestScheduleEntryService()
			repos.entry.createErr = tt.createErr
			_, err := svc.CreateBatch(context.Background(), batchReq("dosen-1", "kelas-10", "A"), "admin-1")
			if !errors.Is(err, tt.want) {
				t.Errorf("期望 %v，实际 %v", tt.want, err)
			}
		})
	}

	svc, repos := setupTestScheduleEntryService()
	storeErr := errors.New("disk full")
	repos.entry.createErr = storeErr
	_, err := svc.CreateBatch(context.Background(), batchReq("dosen-1", "kelas-10", "A"), "admin-1")
	if !errors.Is(err, storeErr) {
		t.Errorf("存储故障应原样返回，实际 %v", err)
	}
}

func TestCreateBatch_InvalidatesStats(t *testing.T) {
	repos := newTestRepos()
	_ = repos.instructor.Create(context.Background(), &model.Instructor{InstructorID: "dosen-1", Name: "Budi", Code: "BS"})
	_ = repos.classroom.Create(context.Background(), &model.Classroom{ClassroomID: "kelas-10", Name: "R10", Period: model.PeriodPagi})
	_ = repos.course.Create(context.Background(), &model.Course{CourseID: "mk-1", Code: "IF101"})
	_ = repos.timeSlot.Create(context.Background(), &model.TimeSlot{TimeSlotID: "A", Period: model.PeriodPagi, StartTime: "07:00", EndTime: "07:50"})

	repo := repos.toRepository()
	cache := NewStatsCache(time.Minute)
	cache.Set(&dto.StatsResponse{TotalEntries: 99})
	svc := NewScheduleEntryService(repo, NewConflictDetector(repo, zap.NewNop()), cache, 3, zap.NewNop())

	if _, err := svc.CreateBatch(context.Background(), batchReq("dosen-1", "kelas-10", "A"), "admin-1"); err != nil {
		t.Fatalf("CreateBatch 应成功: %v", err)
	}
	if _, ok := cache.Get(); ok {
		t.Error("排课写入后统计缓存应失效")
	}
}

// ────────────────────── UpdateEntry ──────────────────────

func updateReq(e *model.ScheduleEntry, slotID string) *dto.UpdateEntryRequest {
	return &dto.UpdateEntryRequest{
		InstructorID: e.InstructorID,
		CourseID:     e.CourseID,
		ClassroomID:  e.ClassroomID,
		Day:          string(e.Day),
		Period:       string(e.Period),
		TimeSlotID:   slotID,
		Version:      e.Version,
	}
}

func TestUpdateEntry_KeepOwnSlot(t *testing.T) {
	svc, repos := setupTestScheduleEntryService()
	e := seedEntry(repos, "dosen-1", "kelas-10", model.DaySenin, "A")

	resp, err := svc.UpdateEntry(context.Background(), e.EntryID, updateReq(e, "A"), "admin-1")
	if err != nil {
		t.Fatalf("保持原时间段的编辑不应与自身冲突: %v", err)
	}
	if resp.Version != 2 {
		t.Errorf("期望 Version=2，实际=%d", resp.Version)
	}
}

func TestUpdateEntry_MoveSlot(t *testing.T) {
	svc, repos := setupTestScheduleEntryService()
	e := seedEntry(repos, "dosen-1", "kelas-10", model.DaySenin, "A")

	resp, err := svc.UpdateEntry(context.Background(), e.EntryID, updateReq(e, "C"), "admin-1")
	if err != nil {
		t.Fatalf("UpdateEntry 应成功: %v", err)
	}
	if resp.TimeSlot == nil || resp.TimeSlot.ID != "C" {
		t.Errorf("期望时间段 C，实际 %+v", resp.TimeSlot)
	}
	if repos.entry.entries[e.EntryID].TimeSlotID != "C" {
		t.Error("存储中的时间段应已更新")
	}
}

func TestUpdateEntry_Conflict(t *testing.T) {
	svc, repos := setupTestScheduleEntryService()
	e := seedEntry(repos, "dosen-1", "kelas-10", model.DaySenin, "A")
	seedEntry(repos, "dosen-2", "kelas-10", model.DaySenin, "B")

	_, err := svc.UpdateEntry(context.Background(), e.EntryID, updateReq(e, "B"), "admin-1")
	var conflictErr *ConflictError
	if !errors.As(err, &conflictErr) {
		t.Fatalf("期望 *ConflictError，实际 %v", err)
	}
	if repos.entry.entries[e.EntryID].TimeSlotID != "A" {
		t.Error("冲突时记录不应被修改")
	}
}

func TestUpdateEntry_VersionConflict(t *testing.T) {
	svc, repos := setupTestScheduleEntryService()
	e := seedEntry(repos, "dosen-1", "kelas-10", model.DaySenin, "A")

	req := updateReq(e, "B")
	req.Version = 5
	_, err := svc.UpdateEntry(context.Background(), e.EntryID, req, "admin-1")
	if !errors.Is(err, ErrEntryVersionConflict) {
		t.Fatalf("期望 ErrEntryVersionConflict，实际 %v", err)
	}
}

func TestUpdateEntry_NotFound(t *testing.T) {
	svc, _ := setupTestScheduleEntryService()
	req := &dto.UpdateEntryRequest{
		InstructorID: "dosen-1", CourseID: "mk-1", ClassroomID: "kelas-10",
		Day: "SENIN", Period: "PAGI", TimeSlotID: "A", Version: 1,
	}
	_, err := svc.UpdateEntry(context.Background(), "missing", req, "admin-1")
	if !errors.Is(err, ErrScheduleEntryNotFound) {
		t.Fatalf("期望 ErrScheduleEntryNotFound，实际 %v", err)
	}
}

// ────────────────────── Get / List / Delete ──────────────────────

func TestGetEntry(t *testing.T) {
	svc, repos := setupTestScheduleEntryService()
	e := seedEntry(repos, "dosen-1", "kelas-10", model.DaySenin, "A")

	resp, err := svc.GetEntry(context.Background(), e.EntryID)
	if err != nil {
		t.Fatalf("GetEntry 应成功: %v", err)
	}
	if resp.Instructor.Name != "Budi Santoso" {
		t.Errorf("期望教师 Budi Santoso，实际 %s", resp.Instructor.Name)
	}

	if _, err := svc.GetEntry(context.Background(), "missing"); !errors.Is(err, ErrScheduleEntryNotFound) {
		t.Errorf("期望 ErrScheduleEntryNotFound，实际 %v", err)
	}
}

func TestListEntries_OrderAndFilter(t *testing.T) {
	svc, repos := setupTestScheduleEntryService()
	seedEntry(repos, "dosen-1", "kelas-10", model.DayRabu, "A")
	seedEntry(repos, "dosen-1", "kelas-10", model.DaySenin, "C")
	seedEntry(repos, "dosen-1", "kelas-10", model.DaySenin, "A")
	seedEntry(repos, "dosen-2", "kelas-20", model.DaySenin, "B")

	list, total, err := svc.ListEntries(context.Background(), &dto.ScheduleEntryListRequest{InstructorID: "dosen-1"})
	if err != nil {
		t.Fatalf("ListEntries 应成功: %v", err)
	}
	if total != 3 || len(list) != 3 {
		t.Fatalf("期望 3 条，实际 %d", total)
	}
	got := []string{}
	for _, e := range list {
		got = append(got, e.Day+"/"+e.TimeSlot.ID)
	}
	want := []string{"SENIN/A", "SENIN/C", "RABU/A"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("期望顺序 %v，实际 %v", want, got)
	}
}

func TestDeleteEntry(t *testing.T) {
	svc, repos := setupTestScheduleEntryService()
	e := seedEntry(repos, "dosen-1", "kelas-10", model.DaySenin, "A")

	if err := svc.DeleteEntry(context.Background(), e.EntryID); err != nil {
		t.Fatalf("DeleteEntry 应成功: %v", err)
	}
	if len(repos.entry.entries) != 0 {
		t.Error("删除后存储应为空")
	}
	if err := svc.DeleteEntry(context.Background(), e.EntryID); !errors.Is(err, ErrScheduleEntryNotFound) {
		t.Errorf("重复删除期望 ErrScheduleEntryNotFound，实际 %v", err)
	}
}
