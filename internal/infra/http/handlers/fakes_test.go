package handlers

import (
	"context"

	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/entity"
	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/usecase"
)

type fakeSubmitter struct {
	got usecase.SubmitLeadInput
	out *usecase.SubmitLeadOutput
	err error
}

func (f *fakeSubmitter) Execute(_ context.Context, in usecase.SubmitLeadInput) (*usecase.SubmitLeadOutput, error) {
	f.got = in
	return f.out, f.err
}

// fakePipeline answers every call with lead/err; the actor of the last call
// is kept for assertions.
type fakePipeline struct {
	lead   *entity.Lead
	err    error
	actor  usecase.Actor
	from   *entity.Stage
	filter entity.LeadFilter
}

func (f *fakePipeline) ChangeStage(_ context.Context, a usecase.Actor, _ string, to entity.Stage, from *entity.Stage) (*entity.Lead, error) {
	f.actor, f.from = a, from
	if f.err != nil {
		return nil, f.err
	}
	f.lead.Stage = to
	return f.lead, nil
}

func (f *fakePipeline) RecoverStale(_ context.Context, a usecase.Actor, _ string) (*entity.Lead, error) {
	f.actor = a
	return f.lead, f.err
}

func (f *fakePipeline) AssignAgent(_ context.Context, a usecase.Actor, _, _ string) (*entity.Lead, error) {
	f.actor = a
	return f.lead, f.err
}

func (f *fakePipeline) UpdateDetails(_ context.Context, a usecase.Actor, _ string, _ entity.LeadDetails) (*entity.Lead, error) {
	f.actor = a
	return f.lead, f.err
}

func (f *fakePipeline) AddNote(_ context.Context, a usecase.Actor, id, note string) (*entity.LeadActivity, error) {
	f.actor = a
	if f.err != nil {
		return nil, f.err
	}
	return &entity.LeadActivity{LeadID: id, Action: entity.ActionNoteAdded, Details: note}, nil
}

func (f *fakePipeline) List(_ context.Context, a usecase.Actor, filter entity.LeadFilter) ([]*entity.Lead, error) {
	f.actor, f.filter = a, filter
	if f.err != nil {
		return nil, f.err
	}
	return []*entity.Lead{f.lead}, nil
}

func (f *fakePipeline) ListForCustomer(_ context.Context, a usecase.Actor) ([]*entity.Lead, error) {
	f.actor = a
	return []*entity.Lead{f.lead}, f.err
}

func (f *fakePipeline) Get(_ context.Context, a usecase.Actor, _ string) (*usecase.LeadView, error) {
	f.actor = a
	if f.err != nil {
		return nil, f.err
	}
	return &usecase.LeadView{Lead: f.lead, Activities: []*entity.LeadActivity{}}, nil
}

func (f *fakePipeline) Board(_ context.Context, a usecase.Actor) ([]usecase.BoardColumn, error) {
	f.actor = a
	return []usecase.BoardColumn{{Stage: entity.StageNew, Leads: []*entity.Lead{f.lead}}}, f.err
}

type fakeAuth struct {
	out *usecase.LoginOutput
	err error
}

func (f *fakeAuth) Login(context.Context, string, string) (*usecase.LoginOutput, error) {
	return f.out, f.err
}

func (f *fakeAuth) ChangePassword(context.Context, string, string, string) (*usecase.LoginOutput, error) {
	return f.out, f.err
}

type fakeAccounts struct {
	inactive map[string]bool
}

func (f *fakeAccounts) CheckActive(_ context.Context, userID string) error {
	if f.inactive[userID] {
		return &usecase.DomainError{Code: usecase.CodeAccountInactive, Message: "account is deactivated"}
	}
	return nil
}

type fakeMembers struct {
	user *entity.User
	err  error
}

func (f *fakeMembers) CreateMember(_ context.Context, _ usecase.Actor, in usecase.CreateMemberInput) (*usecase.CreateMemberOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &usecase.CreateMemberOutput{User: f.user, TemporaryPassword: "Temp1234abcd"}, nil
}

func (f *fakeMembers) ListMembers(context.Context, usecase.Actor, entity.UserFilter) ([]*entity.User, error) {
	return []*entity.User{f.user}, f.err
}

func (f *fakeMembers) VerifyAgent(context.Context, usecase.Actor, string, bool, string) (*entity.User, error) {
	return f.user, f.err
}

func (f *fakeMembers) Deactivate(context.Context, usecase.Actor, string) (*entity.User, error) {
	return f.user, f.err
}

func (f *fakeMembers) GetOnboarding(context.Context, string) (*entity.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func (f *fakeMembers) CompleteOnboarding(context.Context, string, usecase.CompleteOnboardingInput) (*entity.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

type fakeOTP struct{ err error }

func (f *fakeOTP) SendSMS(context.Context, string) (string, error)         { return "vid-1", f.err }
func (f *fakeOTP) VerifySMS(context.Context, string, string, string) error { return f.err }
func (f *fakeOTP) SendEmail(context.Context, string) error                 { return f.err }
func (f *fakeOTP) VerifyEmail(context.Context, string, string) error       { return f.err }

type fakeNewsletter struct{ created bool }

func (f *fakeNewsletter) Subscribe(context.Context, string, string) (bool, error) {
	return f.created, nil
}

type fakeUploads struct{}

func (fakeUploads) Sign(_ context.Context, _ usecase.Actor, folder string) (*usecase.UploadSignature, error) {
	return &usecase.UploadSignature{Folder: folder, Signature: "sig", Timestamp: 1700000000}, nil
}

type fakeSweeper struct {
	runs int
}

func (f *fakeSweeper) Run(context.Context) (*usecase.SweepResult, error) {
	f.runs++
	return &usecase.SweepResult{Staled: 2, LeadIDs: []string{"a", "b"}}, nil
}
