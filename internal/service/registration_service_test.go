package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ciudad-suerte/internal/constants"
	"github.com/ciudad-suerte/internal/models"
)

func registrationInput(idNumber string) RegistrationInput {
	return RegistrationInput{
		FirstName: " María ",
		LastName:  "López",
		IDNumber:  idNumber,
		Email:     " Maria@Example.COM ",
		Phone:     "3794 123456",
		BirthDate: time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC),
	}
}

func TestRegisterIssuesWelcomeCoupons(t *testing.T) {
	f := setupRaffleServiceTest(t)
	terminal := f.terminal(t)

	result, err := f.registration.Register(context.Background(), terminal, Actor{}, registrationInput("30.555.666"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if result.Person.IDNumber != "30555666" || result.Person.FirstName != "María" || result.Person.Email != "maria@example.com" {
		t.Fatalf("unexpected person: %+v", result.Person)
	}
	if len(result.Coupons) != 5 {
		t.Fatalf("coupons = %d, want 5", len(result.Coupons))
	}
	for i, coupon := range result.Coupons {
		want := FormatCouponCode("SCN", "T01", int64(i+1))
		if coupon.Code != want || coupon.Source != constants.CouponSourceRegister || coupon.Printed {
			t.Fatalf("unexpected coupon %d: %+v", i, coupon)
		}
	}
}

func TestRegisterDuplicateRollsBack(t *testing.T) {
	f := setupRaffleServiceTest(t)
	terminal := f.terminal(t)

	first, err := f.registration.Register(context.Background(), terminal, Actor{}, registrationInput("30555666"))
	if err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	_, err = f.registration.Register(context.Background(), terminal, Actor{}, registrationInput("30-555-666"))
	if !errors.Is(err, ErrPersonAlreadyExists) {
		t.Fatalf("err = %v, want ErrPersonAlreadyExists", err)
	}

	var persons int64
	if err := f.db.Model(&models.Person{}).Count(&persons).Error; err != nil {
		t.Fatalf("count persons failed: %v", err)
	}
	if persons != 1 {
		t.Fatalf("persons = %d, want 1", persons)
	}
	if got := f.countCoupons(t, first.Person.ID, constants.CouponSourceRegister); got != 5 {
		t.Fatalf("register coupons = %d, want 5", got)
	}
}

func TestRegisterValidation(t *testing.T) {
	f := setupRaffleServiceTest(t)
	terminal := f.terminal(t)

	underage := registrationInput("40111222")
	underage.BirthDate = f.now.AddDate(-18, 0, 1)
	if _, err := f.registration.Register(context.Background(), terminal, Actor{}, underage); !errors.Is(err, ErrPersonUnderage) {
		t.Fatalf("err = %v, want ErrPersonUnderage", err)
	}

	adult := registrationInput("40111223")
	adult.BirthDate = f.now.AddDate(-18, 0, 0)
	if _, err := f.registration.Register(context.Background(), terminal, Actor{}, adult); err != nil {
		t.Fatalf("18th birthday register failed: %v", err)
	}

	if _, err := f.registration.Register(context.Background(), terminal, Actor{}, registrationInput("12")); !errors.Is(err, ErrInvalidIDNumber) {
		t.Fatalf("err = %v, want ErrInvalidIDNumber", err)
	}

	missing := registrationInput("40111224")
	missing.LastName = "  "
	if _, err := f.registration.Register(context.Background(), terminal, Actor{}, missing); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestAgeOn(t *testing.T) {
	birth := time.Date(2000, 2, 29, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		at   time.Time
		want int
	}{
		{time.Date(2018, 2, 28, 0, 0, 0, 0, time.UTC), 17},
		{time.Date(2018, 3, 1, 0, 0, 0, 0, time.UTC), 18},
		{time.Date(2020, 2, 29, 0, 0, 0, 0, time.UTC), 20},
	}
	for _, tc := range cases {
		if got := AgeOn(birth, tc.at); got != tc.want {
			t.Fatalf("AgeOn(%v) = %d, want %d", tc.at, got, tc.want)
		}
	}
}
