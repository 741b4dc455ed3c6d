package store

import (
	"testing"

	"student-data-system/internal/model"
	"student-data-system/test"
	"student-data-system/tools"

	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *Store {
	return New(test.NewDB(t))
}

func mustCreate(t *testing.T, s *Store, nis, nama, kelas string) *model.Student {
	t.Helper()
	student := &model.Student{
		NIS:                nis,
		Nama:               nama,
		Kelas:              kelas,
		Password:           tools.PasswordEncrypt(nis),
		Role:               model.RoleStudent,
		MustChangePassword: true,
	}
	require.NoError(t, s.Create(student))
	return student
}

func TestCreateAndGet(t *testing.T) {
	s := newStore(t)
	created := mustCreate(t, s, "1001", "Ahmad Fauzi", "X")
	require.NotZero(t, created.ID)

	got, err := s.Get(created.ID)
	require.NoError(t, err)
	require.Equal(t, "1001", got.NIS)
	require.Equal(t, "Ahmad Fauzi", got.Nama)
	require.False(t, got.CreatedAt.IsZero())
}

func TestGetMissing(t *testing.T) {
	s := newStore(t)
	_, err := s.Get(12345)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCreateDuplicateNIS(t *testing.T) {
	s := newStore(t)
	mustCreate(t, s, "1001", "Ahmad Fauzi", "X")

	dup := &model.Student{NIS: "1001", Nama: "Other", Role: model.RoleStudent, Password: "x"}
	require.ErrorIs(t, s.Create(dup), ErrDuplicateNIS)
}

func TestCreateSecondAdmin(t *testing.T) {
	s := newStore(t)
	admin := &model.Student{NIS: "ADMIN", Nama: "Administrator", Role: model.RoleAdmin, Password: "x"}
	require.NoError(t, s.Create(admin))

	second := &model.Student{NIS: "ADMIN2", Nama: "Other Admin", Role: model.RoleAdmin, Password: "x"}
	require.ErrorIs(t, s.Create(second), ErrAdminExists)
}

func TestUpdatePromoteSecondAdmin(t *testing.T) {
	s := newStore(t)
	admin := &model.Student{NIS: "ADMIN", Nama: "Administrator", Role: model.RoleAdmin, Password: "x"}
	require.NoError(t, s.Create(admin))
	st := mustCreate(t, s, "1001", "Ahmad Fauzi", "X")

	_, err := s.Update(st.ID, map[string]any{"role": string(model.RoleAdmin)})
	require.ErrorIs(t, err, ErrAdminExists)
}

func TestListFilterAndOrder(t *testing.T) {
	s := newStore(t)
	mustCreate(t, s, "1003", "Rudi Hartono", "XII")
	mustCreate(t, s, "1002", "Siti Nurhaliza", "XI")
	mustCreate(t, s, "1001", "Ahmad Fauzi", "X")

	all, err := s.List(Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "Ahmad Fauzi", all[0].Nama)
	require.Equal(t, "Rudi Hartono", all[1].Nama)
	require.Equal(t, "Siti Nurhaliza", all[2].Nama)

	xi, err := s.List(Filter{Kelas: "XI"})
	require.NoError(t, err)
	require.Len(t, xi, 1)
	require.Equal(t, "1002", xi[0].NIS)

	// kelas matches exactly, XI must not match XII
	for _, st := range xi {
		require.Equal(t, "XI", st.Kelas)
	}
}

func TestListSearch(t *testing.T) {
	s := newStore(t)
	mustCreate(t, s, "1001", "Ahmad Fauzi", "X")
	mustCreate(t, s, "1002", "Siti Nurhaliza", "XI")

	byName, err := s.List(Filter{Search: "sit"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	require.Equal(t, "Siti Nurhaliza", byName[0].Nama)

	byNIS, err := s.List(Filter{Search: "1001"})
	require.NoError(t, err)
	require.Len(t, byNIS, 1)
	require.Equal(t, "Ahmad Fauzi", byNIS[0].Nama)

	upper, err := s.List(Filter{Search: "SITI"})
	require.NoError(t, err)
	require.Len(t, upper, 1)

	none, err := s.List(Filter{Search: "zzz"})
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestUpdatePartial(t *testing.T) {
	s := newStore(t)
	st := mustCreate(t, s, "1001", "Ahmad Fauzi", "X")

	updated, err := s.Update(st.ID, map[string]any{"kelas": "XI", "tb": 171})
	require.NoError(t, err)
	require.Equal(t, "XI", updated.Kelas)
	require.Equal(t, 171, updated.TB)
	// untouched fields survive
	require.Equal(t, "Ahmad Fauzi", updated.Nama)
	require.Equal(t, "1001", updated.NIS)
}

func TestUpdateMissing(t *testing.T) {
	s := newStore(t)
	_, err := s.Update(999, map[string]any{"kelas": "XI"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	s := newStore(t)
	st := mustCreate(t, s, "1001", "Ahmad Fauzi", "X")

	require.NoError(t, s.Delete(st.ID))
	_, err := s.Get(st.ID)
	require.ErrorIs(t, err, ErrNotFound)

	require.ErrorIs(t, s.Delete(st.ID), ErrNotFound)
}

func TestBulkCreateSkipsDuplicates(t *testing.T) {
	s := newStore(t)
	existing := mustCreate(t, s, "1001", "Ahmad Fauzi", "X")

	inserted, err := s.BulkCreate([]model.Student{
		{NIS: "1001", Nama: "Imposter", Role: model.RoleStudent, Password: "x"},
		{NIS: "1002", Nama: "Siti Nurhaliza", Role: model.RoleStudent, Password: "x"},
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, inserted)

	// the existing row is untouched, not merged
	got, err := s.Get(existing.ID)
	require.NoError(t, err)
	require.Equal(t, "Ahmad Fauzi", got.Nama)

	total, err := s.Count()
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
}

func TestBulkCreateAllDuplicates(t *testing.T) {
	s := newStore(t)
	mustCreate(t, s, "1001", "Ahmad Fauzi", "X")

	inserted, err := s.BulkCreate([]model.Student{
		{NIS: "1001", Nama: "Imposter", Role: model.RoleStudent, Password: "x"},
	})
	require.NoError(t, err)
	require.EqualValues(t, 0, inserted)
}

func TestBulkCreateEmptyNISCollide(t *testing.T) {
	s := newStore(t)

	inserted, err := s.BulkCreate([]model.Student{
		{NIS: "", Nama: "First", Role: model.RoleStudent, Password: "x"},
		{NIS: "", Nama: "Second", Role: model.RoleStudent, Password: "x"},
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, inserted)
}

func TestBulkCreateEmptyBatch(t *testing.T) {
	s := newStore(t)
	inserted, err := s.BulkCreate(nil)
	require.NoError(t, err)
	require.Zero(t, inserted)
}

func TestCountByKelas(t *testing.T) {
	s := newStore(t)
	mustCreate(t, s, "1001", "Ahmad Fauzi", "X")
	mustCreate(t, s, "1002", "Siti Nurhaliza", "XI")
	mustCreate(t, s, "1003", "Rudi Hartono", "XI")

	rows, err := s.CountByKelas()
	require.NoError(t, err)
	require.Equal(t, []KelasCount{
		{Kelas: "X", Count: 1},
		{Kelas: "XI", Count: 2},
	}, rows)
}
