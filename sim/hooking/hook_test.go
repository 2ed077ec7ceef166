package hooking

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("HookableBase", func() {
	var (
		mockCtrl *gomock.Controller
		hookable *HookableBase
		pos      *HookPos
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		hookable = &HookableBase{}
		pos = &HookPos{Name: "Test"}
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should invoke hooks in registration order", func() {
		hook1 := NewMockHook(mockCtrl)
		hook2 := NewMockHook(mockCtrl)
		ctx := HookCtx{Pos: pos, Item: 1}

		first := hook1.EXPECT().Func(ctx)
		hook2.EXPECT().Func(ctx).After(first)

		hookable.AcceptHook(hook1)
		hookable.AcceptHook(hook2)
		hookable.InvokeHook(ctx)

		Expect(hookable.NumHooks()).To(Equal(2))
	})

	It("should panic when the same hook is added twice", func() {
		hook := NewMockHook(mockCtrl)
		hookable.AcceptHook(hook)

		Expect(func() { hookable.AcceptHook(hook) }).To(Panic())
	})

	It("should remove a hook", func() {
		hook1 := NewMockHook(mockCtrl)
		hook2 := NewMockHook(mockCtrl)
		ctx := HookCtx{Pos: pos}

		hook2.EXPECT().Func(ctx)

		hookable.AcceptHook(hook1)
		hookable.AcceptHook(hook2)
		hookable.RemoveHook(hook1)
		hookable.InvokeHook(ctx)

		Expect(hookable.Hooks()).To(ConsistOf(hook2))
	})

	It("should wrap functions as hooks", func() {
		called := 0
		hook := NewFuncHook(func(ctx HookCtx) {
			Expect(ctx.Pos).To(BeIdenticalTo(pos))
			called++
		})

		hookable.AcceptHook(hook)
		hookable.AcceptHook(NewFuncHook(func(HookCtx) { called++ }))
		hookable.InvokeHook(HookCtx{Pos: pos})

		Expect(called).To(Equal(2))
	})
})
