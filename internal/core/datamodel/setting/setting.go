package setting

type Setting struct {
	Key   string `gorm:"column:setting_key;primaryKey;size:100"`
	Value string `gorm:"column:setting_value"`
}

func (Setting) TableName() string {
	return "settings"
}
