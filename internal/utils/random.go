package utils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/campushire/talent-market/backend/internal/domain"
	"github.com/mozillazg/go-pinyin"
	"golang.org/x/crypto/bcrypt"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "霞", "飞", "玲", "超",
	"华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌", "欣",
}

func GenerateRandomChineseName() (surname string, name string) {
	surname = commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname, name
}

var digits = "0123456789"

// GenerateEmailLocalPart 把中文姓名转成拼音再拼上随机数字，生成邮箱前缀
func GenerateEmailLocalPart(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	localPart := ""

	for _, p := range pinyinArray {
		localPart += p
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		localPart += string(digits[rand.Intn(len(digits))])
	}

	return localPart
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	random_password := make([]rune, length)
	for i := range random_password {
		random_password[i] = letters[rand.Intn(len(letters))]
	}
	return string(random_password)
}

var seedRoles = []domain.Role{
	domain.RoleStudent,
	domain.RoleClient,
	domain.RoleAdmin,
}

func GenerateRandomRole() domain.Role {
	return seedRoles[rand.Intn(len(seedRoles))]
}

// GenerateRandomUser 生成随机用户及配套的个人资料，供 seed 工具使用
func GenerateRandomUser(password string, emailDomainName string) (*domain.User, *domain.Profile, error) {
	surname, name := GenerateRandomChineseName()
	email := GenerateEmailLocalPart(surname+name) + "@" + emailDomainName

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: string(passwordHash),
		Metadata: map[string]string{
			"requestedRole": string(GenerateRandomRole()),
			"firstName":     name,
			"lastName":      surname,
		},
	}
	profile := &domain.Profile{
		FirstName: name,
		LastName:  surname,
		Email:     email,
	}

	return user, profile, nil
}

var seedCompanies = []string{
	"星河科技", "青云网络", "南山软件", "白帆信息", "极光数据",
	"木棉智能", "远洋互联", "晨曦创投", "竹林云服", "观澜电子",
}
var seedJobTitles = []string{
	"前端开发实习生", "后端开发工程师", "数据分析实习生", "产品经理助理",
	"UI 设计实习生", "测试开发工程师", "运营实习生", "算法实习生",
}
var seedCities = []string{
	"广州", "深圳", "北京", "上海", "杭州", "成都", "武汉", "南京",
}
var seedSkills = []string{
	"Go", "TypeScript", "React", "Python", "SQL", "Docker", "Figma", "Excel",
}
var jobStatuses = []domain.JobStatus{
	domain.JobStatusActive,
	domain.JobStatusActive,
	domain.JobStatusActive,
	domain.JobStatusPaused,
	domain.JobStatusClosed,
}

func GenerateRandomJob(clientID int64) *domain.Job {
	skillsNum := rand.Intn(4) + 1
	skills := make([]string, 0, skillsNum)
	for i := 0; i < skillsNum; i++ {
		skills = append(skills, seedSkills[rand.Intn(len(seedSkills))])
	}

	salaryMin := int32((rand.Intn(20) + 3) * 1000)

	return &domain.Job{
		ClientID:    clientID,
		Title:       seedJobTitles[rand.Intn(len(seedJobTitles))],
		Company:     seedCompanies[rand.Intn(len(seedCompanies))],
		Description: "职位描述" + GenerateRandomPassword(20),
		Location:    seedCities[rand.Intn(len(seedCities))],
		JobType:     []string{"full-time", "part-time", "internship"}[rand.Intn(3)],
		SalaryMin:   salaryMin,
		SalaryMax:   salaryMin + int32(rand.Intn(10)+1)*1000,
		Skills:      skills,
		Status:      jobStatuses[rand.Intn(len(jobStatuses))],
		ExpiresAt:   time.Now().AddDate(0, rand.Intn(3)+1, 0),
	}
}

var paymentStatuses = []domain.PaymentStatus{
	domain.PaymentStatusCompleted,
	domain.PaymentStatusCompleted,
	domain.PaymentStatusPending,
	domain.PaymentStatusFailed,
}

func GenerateRandomPayment(userID int64) *domain.Payment {
	return &domain.Payment{
		UserID:      userID,
		Amount:      int64(rand.Intn(100000) + 1000),
		Currency:    "CNY",
		Status:      paymentStatuses[rand.Intn(len(paymentStatuses))],
		Description: "职位推广费用",
	}
}

func GenerateRandomWaitlistSignup(emailDomainName string) *domain.WaitlistSignup {
	surname, name := GenerateRandomChineseName()

	return &domain.WaitlistSignup{
		Email:     GenerateEmailLocalPart(surname+name) + "@" + emailDomainName,
		FirstName: name,
		LastName:  surname,
		Role:      GenerateRandomRole(),
		City:      seedCities[rand.Intn(len(seedCities))],
		Status:    "pending",
	}
}
