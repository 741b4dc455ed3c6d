package model

// Role is the closed set of account roles. Exactly one ADMIN row exists;
// the store layer rejects writes that would create a second one.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleStudent Role = "STUDENT"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleStudent
}

// Student is one person row, admin or student. NIS is the login
// identifier; Password holds a bcrypt hash, never plaintext.
type Student struct {
	Model
	NIS                string `gorm:"type:varchar(32);uniqueIndex;not null" json:"nis" excel:"NIS"`
	Password           string `gorm:"type:varchar(255);not null" json:"-" excel:"-"`
	Role               Role   `gorm:"type:varchar(10);default:STUDENT;not null" json:"role" excel:"-"`
	MustChangePassword bool   `gorm:"default:true;not null" json:"must_change_password" excel:"-"`

	Nama           string `gorm:"type:varchar(100);not null" json:"nama" excel:"Nama"`
	JK             string `gorm:"type:varchar(2)" json:"jk" excel:"JK"`
	TempatLahir    string `gorm:"type:varchar(100)" json:"tempat_lahir" excel:"Tempat Lahir"`
	TanggalLahir   string `gorm:"type:varchar(20)" json:"tanggal_lahir" excel:"Tanggal Lahir"`
	NIK            string `gorm:"type:varchar(32)" json:"nik" excel:"NIK"`
	Agama          string `gorm:"type:varchar(32)" json:"agama" excel:"Agama"`
	Alamat         string `gorm:"type:varchar(255)" json:"alamat" excel:"Alamat"`
	NoHP           string `gorm:"type:varchar(20)" json:"no_hp" excel:"No HP"`
	Email          string `gorm:"type:varchar(100)" json:"email" excel:"Email"`
	NoHPOrtu       string `gorm:"type:varchar(20)" json:"no_hp_ortu" excel:"No HP Ortu"`
	NamaBapak      string `gorm:"type:varchar(100)" json:"nama_bapak" excel:"Nama Bapak"`
	PekerjaanBapak string `gorm:"type:varchar(100)" json:"pekerjaan_bapak" excel:"Pekerjaan Bapak"`
	NamaIbu        string `gorm:"type:varchar(100)" json:"nama_ibu" excel:"Nama Ibu"`
	Kelas          string `gorm:"type:varchar(20);index" json:"kelas" excel:"Kelas"`
	AsalSekolah    string `gorm:"type:varchar(100)" json:"asal_sekolah" excel:"Asal Sekolah"`
	TB             int    `gorm:"default:0" json:"tb" excel:"TB"`
	BB             int    `gorm:"default:0" json:"bb" excel:"BB"`
}
